package integrator

import (
	"fmt"
	"time"
)

var (
	// ErrUnexpectedState means the integrator reported stop/reset/overflow
	// while a cycle was running. The instrument state is indeterminate and
	// the session should end.
	ErrUnexpectedState = fmt.Errorf("integration stopped unexpectedly")
	// ErrPollTimeout means the deadman timer expired before TIMEUP.
	ErrPollTimeout = fmt.Errorf("integration polling timed out")
	// ErrInterrupted means the operator requested a stop mid-cycle.
	ErrInterrupted = fmt.Errorf("integration interrupted")
)

// CycleResult holds the parsed values read at the end of one completed
// integration cycle plus the derived interval average power.
type CycleResult struct {
	Timestamp time.Time
	// End-of-interval instantaneous readings
	PeakVoltageV float64
	CurrentA     float64
	InstPowerW   float64
	// Accumulated over the interval
	WattHours float64
	// WattHours over the configured interval
	AvgPowerW float64
}
