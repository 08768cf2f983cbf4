// Package integrator drives one timed energy-integration cycle on the
// analyzer: reset, start, poll the integration state until TIMEUP, then read
// the numeric values. The instrument exposes no completion event, only the
// state query, so the cycle is a polling loop bounded by a deadman timer.
package integrator

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/benchkit/power_analyzer_logger/pkg/logging"
	"github.com/benchkit/power_analyzer_logger/pkg/paunits"
	"github.com/benchkit/power_analyzer_logger/pkg/scpi"
	"github.com/benchkit/power_analyzer_logger/pkg/session"
)

// deadmanFactor bounds total polling time relative to the configured
// interval. RUNNING can be reported forever by a stuck instrument.
const deadmanFactor = 1.5

type Integrator struct {
	sess            *session.Session
	intervalSeconds int
	stopSignal      atomic.Bool

	// Pause after the reset command before starting.
	ResetDelay time.Duration
	// Pause after the start command before the first state poll.
	StartDelay time.Duration
	// Delay between state polls while RUNNING.
	PollInterval time.Duration
}

func New(sess *session.Session, intervalSeconds int) *Integrator {
	return &Integrator{
		sess:            sess,
		intervalSeconds: intervalSeconds,
		ResetDelay:      300 * time.Millisecond,
		StartDelay:      100 * time.Millisecond,
		PollInterval:    400 * time.Millisecond,
	}
}

// RunCycle drives one full reset-start-wait-read cycle and returns the
// parsed result. Only one cycle is ever in flight.
func (in *Integrator) RunCycle() (*CycleResult, error) {
	client := in.sess.Client()

	logging.Debug().Msg("Resetting integrator")
	if err := client.Send(":INTegrate:RESet"); err != nil {
		return nil, err
	}
	time.Sleep(in.ResetDelay)

	logging.Debug().Msg("Starting integrator")
	if err := client.Send(":INTegrate:STARt"); err != nil {
		return nil, err
	}
	time.Sleep(in.StartDelay)

	if err := in.waitForTimeUp(); err != nil {
		return nil, err
	}

	return in.readResult()
}

// waitForTimeUp polls the integration state until TIMEUP. Empty and unknown
// responses are transient and re-poll; stop/reset/overflow are faults; the
// deadman timer aborts regardless of reported state.
func (in *Integrator) waitForTimeUp() error {
	client := in.sess.Client()
	start := time.Now()
	deadman := time.Duration(deadmanFactor * float64(in.intervalSeconds) * float64(time.Second))

	for {
		if in.stopSignal.Load() {
			return ErrInterrupted
		}
		if elapsed := time.Since(start); elapsed > deadman {
			return fmt.Errorf("%w after %.1fs waiting for TIMEUP", ErrPollTimeout, elapsed.Seconds())
		}

		resp, err := client.Query(":INTEGRATE:STATE?")
		if err != nil {
			return err
		}
		if resp == "" {
			logging.Warn().Msg("No response to integration state query, re-polling")
			continue
		}

		state := scpi.ClassifyState(resp)
		switch state {
		case scpi.StateTimeUp:
			logging.Info().Str("response", resp).Msg("Integration complete")
			return nil
		case scpi.StateRunning:
			logging.Debug().Float64("elapsed_s", time.Since(start).Seconds()).Msg("Integration running")
			time.Sleep(in.PollInterval)
		case scpi.StateStopped, scpi.StateReset:
			return fmt.Errorf("%w: state %q", ErrUnexpectedState, resp)
		case scpi.StateOverflow:
			return fmt.Errorf("%w: overflow, state %q", ErrUnexpectedState, resp)
		default:
			logging.Warn().Str("response", resp).Msg("Unexpected integration state, re-polling")
			time.Sleep(in.PollInterval)
		}
	}
}

// readResult issues the value query exactly once and computes the derived
// interval average power.
func (in *Integrator) readResult() (*CycleResult, error) {
	resp, err := in.sess.Client().Query(":NUMERIC:NORMAL:VALUE?")
	if err != nil {
		return nil, err
	}
	if resp == "" {
		return nil, fmt.Errorf("%w: no measurement response after integration",
			scpi.ErrIncompleteMeasurement)
	}

	if in.sess.ItemCount() < len(session.IntegrationItems) {
		return nil, fmt.Errorf("session reports %d item slots, integration needs %d",
			in.sess.ItemCount(), len(session.IntegrationItems))
	}
	values, err := scpi.ParseValueList(resp, in.sess.ItemCount())
	if err != nil {
		return nil, err
	}

	result := &CycleResult{
		Timestamp:    time.Now(),
		PeakVoltageV: values[0],
		CurrentA:     values[1],
		InstPowerW:   values[2],
		WattHours:    values[3],
	}
	result.AvgPowerW = paunits.AveragePowerW(result.WattHours, in.intervalSeconds)
	return result, nil
}

// RequestStop makes the current and any future cycle return ErrInterrupted
// at the next state poll.
func (in *Integrator) RequestStop() {
	in.stopSignal.Store(true)
}

// Stopped reports whether a stop was requested.
func (in *Integrator) Stopped() bool {
	return in.stopSignal.Load()
}

// Stop sends a best-effort stop command for shutdown paths. Failures are
// logged and swallowed; the transport is going away either way.
func (in *Integrator) Stop() {
	if err := in.sess.Client().Send(":INTegrate:STOP"); err != nil {
		logging.Warn().Err(err).Msg("Could not send integrator stop command")
	}
}
