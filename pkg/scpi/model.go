package scpi

import (
	"fmt"
	"time"
)

var (
	ErrNotConnected          = fmt.Errorf("serial port not connected")
	ErrReadTimeout           = fmt.Errorf("read timed out")
	ErrMalformedResponse     = fmt.Errorf("malformed response")
	ErrIncompleteMeasurement = fmt.Errorf("incomplete measurement")
)

// Transport is a newline-framed bidirectional line channel to the instrument.
type Transport interface {
	WriteLine(line string) error
	ReadLine(timeout time.Duration) (string, error)
	Close() error
}

// IntegratorState is the decoded integration state of the instrument.
type IntegratorState int

const (
	StateUnknown IntegratorState = iota
	StateReset
	StateRunning
	StateTimeUp
	StateStopped
	StateOverflow
)

func (s IntegratorState) String() string {
	switch s {
	case StateReset:
		return "RESET"
	case StateRunning:
		return "RUNNING"
	case StateTimeUp:
		return "TIMEUP"
	case StateStopped:
		return "STOP"
	case StateOverflow:
		return "OVERFLOW"
	default:
		return "UNKNOWN"
	}
}

// Client issues commands and queries over a Transport, one at a time.
type Client struct {
	transport Transport

	// Pause after every write. Some instruments drop the next command
	// without it.
	CommandDelay time.Duration
	// Read deadline for query responses.
	ReadTimeout time.Duration
}
