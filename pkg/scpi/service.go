package scpi

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/benchkit/power_analyzer_logger/pkg/logging"
	"github.com/jacobsa/go-serial/serial"
)

// SerialTransport is a Transport over a serial port.
type SerialTransport struct {
	port     io.ReadWriteCloser
	portName string
	pending  []byte
}

// OpenSerial opens the serial port the analyzer is attached to.
func OpenSerial(portName string, baudrate uint) (*SerialTransport, error) {
	options := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baudrate,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       0,
		InterCharacterTimeout: 100,
	}

	port, err := serial.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}

	logging.Info().Str("port", portName).Uint("baudrate", baudrate).Msg("Connected to analyzer serial port")
	return &SerialTransport{port: port, portName: portName}, nil
}

func (t *SerialTransport) WriteLine(line string) error {
	if t.port == nil {
		return ErrNotConnected
	}
	if _, err := t.port.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("serial write failed for %q: %w", line, err)
	}
	return nil
}

// ReadLine reads one newline-terminated line, waiting up to timeout for data.
// Returns ErrReadTimeout when no full line arrives in time; bytes received
// before the deadline are kept for the next call.
func (t *SerialTransport) ReadLine(timeout time.Duration) (string, error) {
	if t.port == nil {
		return "", ErrNotConnected
	}

	deadline := time.Now().Add(timeout)
	buf := make([]byte, 64)

	for {
		if idx := bytes.IndexByte(t.pending, '\n'); idx >= 0 {
			line := string(t.pending[:idx])
			t.pending = t.pending[idx+1:]
			return strings.TrimSpace(line), nil
		}

		if time.Now().After(deadline) {
			return "", ErrReadTimeout
		}

		n, err := t.port.Read(buf)
		if n > 0 {
			t.pending = append(t.pending, buf[:n]...)
			continue
		}
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("serial read failed: %w", err)
		}
		// No data within the port's inter-character timeout; keep
		// waiting until the caller's deadline.
	}
}

func (t *SerialTransport) Close() error {
	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	logging.Info().Str("port", t.portName).Msg("Disconnected from analyzer serial port")
	return err
}

// NewClient wraps a transport with the default command pacing.
func NewClient(transport Transport) *Client {
	return &Client{
		transport:    transport,
		CommandDelay: 100 * time.Millisecond,
		ReadTimeout:  2 * time.Second,
	}
}

// Send writes a single command line. No acknowledgment is expected; a short
// pause follows the write so the instrument can process it before the next
// command.
func (c *Client) Send(command string) error {
	if err := c.transport.WriteLine(command); err != nil {
		return err
	}
	time.Sleep(c.CommandDelay)
	return nil
}

// Query sends a command and reads one response line, trimmed of surrounding
// whitespace. A read timeout is not an error: the result is ("", nil) and the
// caller decides whether to retry.
func (c *Client) Query(command string) (string, error) {
	if err := c.transport.WriteLine(command); err != nil {
		return "", err
	}

	line, err := c.transport.ReadLine(c.ReadTimeout)
	if err == ErrReadTimeout {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *Client) Close() error {
	return c.transport.Close()
}
