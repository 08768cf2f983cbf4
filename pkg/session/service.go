// Package session brings the analyzer into a known measurement-reporting
// configuration before the logging loop starts. Set commands are verified
// best-effort via read-back queries; the instrument does not acknowledge
// sets synchronously, so malformed read-backs only warn.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benchkit/power_analyzer_logger/pkg/logging"
	"github.com/benchkit/power_analyzer_logger/pkg/paunits"
	"github.com/benchkit/power_analyzer_logger/pkg/scpi"
)

type Session struct {
	client *scpi.Client

	// Number of item slots the value query reports after ConfigureItems.
	itemCount int
}

func New(client *scpi.Client) *Session {
	return &Session{client: client}
}

func (s *Session) Client() *scpi.Client {
	return s.client
}

func (s *Session) ItemCount() int {
	return s.itemCount
}

// Handshake verifies the instrument answers an identity query. No response
// is fatal: nothing else will work on a dead or misaddressed port.
func (s *Session) Handshake() error {
	idn, err := s.client.Query("*IDN?")
	if err != nil {
		return err
	}
	if idn == "" {
		return ErrNoIdentity
	}

	logging.Info().Str("identity", idn).Msg("Instrument identified")
	upper := strings.ToUpper(idn)
	if !strings.Contains(upper, "TELEDYNE") && !strings.Contains(upper, "LECROY") {
		logging.Warn().Str("identity", idn).Msg("Instrument ID does not mention Teledyne/LeCroy, ensure compatibility")
	}
	return nil
}

// ConfigureItems assigns each numeric item slot in order and sets the
// reported item count to len(items). The count is verified by read-back;
// on mismatch one corrective set is issued and re-verified once, then the
// configuration proceeds trusting the set took effect.
func (s *Session) ConfigureItems(items []MeasurementItem) error {
	if len(items) == 0 || len(items) > MaxItemSlots {
		return fmt.Errorf("item count %d out of range 1..%d", len(items), MaxItemSlots)
	}

	for i, item := range items {
		cmd := fmt.Sprintf(":NUMeric:NORMal:ITEM%d %s", i+1, item)
		if err := s.client.Send(cmd); err != nil {
			return err
		}
	}

	reported, err := s.readBackItemCount()
	if err != nil {
		return err
	}

	if reported != len(items) {
		logging.Info().Int("reported", reported).Int("want", len(items)).
			Msg("Correcting reported item count")
		cmd := fmt.Sprintf(":NUMeric:NORMal:NUMBer %d", len(items))
		if err := s.client.Send(cmd); err != nil {
			return err
		}
		// One corrective attempt only; if the re-verify still
		// disagrees, trust the set command.
		reported, err = s.readBackItemCount()
		if err != nil {
			return err
		}
		if reported != len(items) && reported >= 0 {
			logging.Warn().Int("reported", reported).Int("want", len(items)).
				Msg("Item count read-back still disagrees, proceeding")
		}
	}

	s.itemCount = len(items)
	return nil
}

// readBackItemCount queries the configured item count. Missing or malformed
// responses are warnings, reported as -1. Transport faults propagate.
func (s *Session) readBackItemCount() (int, error) {
	resp, err := s.client.Query(":NUMERIC:NORMAL:NUMBER?")
	if err != nil {
		return -1, err
	}
	if resp == "" {
		logging.Warn().Msg("No response to item count query")
		return -1, nil
	}

	count, err := scpi.ParseIntResponse(resp)
	if err != nil {
		if errors.Is(err, scpi.ErrMalformedResponse) {
			logging.Warn().Str("response", resp).Msg("Unparseable item count read-back")
			return -1, nil
		}
		return -1, err
	}
	return count, nil
}

// ConfigureAveraging sets the instantaneous averaging count (1..64 in powers
// of two on this instrument family) and logs the read-back.
func (s *Session) ConfigureAveraging(count int) error {
	cmd := fmt.Sprintf(":MEASure:AVERaging:COUNt %d", count)
	if err := s.client.Send(cmd); err != nil {
		return err
	}

	resp, err := s.client.Query(":MEASURE:AVERAGING:COUNT?")
	if err != nil {
		return err
	}
	if resp == "" {
		logging.Warn().Msg("No response to averaging count query")
	} else {
		logging.Info().Str("response", resp).Msg("Averaging count confirmed")
	}
	return nil
}

// ConfigureIntegration puts the integrator into timed standard mode
// accumulating watt-hours over the given interval.
func (s *Session) ConfigureIntegration(intervalSeconds int) error {
	if err := s.client.Send(":INTegrate:MODE STANdard"); err != nil {
		return err
	}
	if err := s.client.Send(":INTegrate:FUNCtion WATT"); err != nil {
		return err
	}

	h, m, sec := paunits.SecondsToHMS(intervalSeconds)
	logging.Info().Int("hours", h).Int("minutes", m).Int("seconds", sec).
		Int("interval_seconds", intervalSeconds).Msg("Setting integration timer")
	if err := s.client.Send(fmt.Sprintf(":INTegrate:TIMer %d,%d,%d", h, m, sec)); err != nil {
		return err
	}

	// Confirmation read-backs; informational only.
	for _, q := range []string{":INTEGRATE:MODE?", ":INTEGRATE:FUNCTION?", ":INTEGRATE:TIMER?"} {
		resp, err := s.client.Query(q)
		if err != nil {
			return err
		}
		logging.Info().Str("query", q).Str("response", resp).Msg("Integration setting confirmed")
	}
	return nil
}
