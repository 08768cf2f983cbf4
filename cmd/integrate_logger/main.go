// Integration logger: drives timed energy-integration cycles on the analyzer
// and appends one row per completed cycle to CSV. Optionally publishes each
// cycle on a live monitor endpoint for sample_collector.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/benchkit/power_analyzer_logger/pkg/config"
	"github.com/benchkit/power_analyzer_logger/pkg/csv_sink"
	"github.com/benchkit/power_analyzer_logger/pkg/integrator"
	"github.com/benchkit/power_analyzer_logger/pkg/logging"
	"github.com/benchkit/power_analyzer_logger/pkg/monitor"
	"github.com/benchkit/power_analyzer_logger/pkg/samplefeed"
	"github.com/benchkit/power_analyzer_logger/pkg/scpi"
	"github.com/benchkit/power_analyzer_logger/pkg/session"
)

const timestampFormat = "2006-01-02 15:04:05"

var csvHeader = []string{
	"Timestamp",
	"Interval Avg Power (W)",
	"Interval WattHours (Wh)",
	"End Interval V+pk (V)",
	"End Interval Current (A)",
	"End Interval Inst Power (W)",
}

func main() {
	if err := config.LoadIntegrateLoggerConfig(); err != nil {
		logging.Fatal().Err(err).Msg("Failed to load integrate logger config")
	}
	cfg := config.ActiveIntegrateLoggerConfig

	if err := logging.Init(cfg.LogLevel); err != nil {
		logging.Fatal().Err(err).Msg("Invalid log level")
	}

	if err := run(cfg); err != nil {
		logging.Error().Err(err).Msg("Logger terminated on fault")
		os.Exit(1)
	}
}

func run(cfg *config.IntegrateLoggerConfig) error {
	transport, err := scpi.OpenSerial(cfg.SerialDevice, cfg.Baudrate)
	if err != nil {
		return err
	}
	client := scpi.NewClient(transport)
	defer client.Close()

	sess := session.New(client)
	if err := sess.Handshake(); err != nil {
		return err
	}

	logging.Info().Msg("Configuring integration settings")
	if err := sess.ConfigureIntegration(cfg.IntegrationIntervalSeconds); err != nil {
		return err
	}

	logging.Info().Msg("Configuring numeric items: 1=UPPeak, 2=I, 3=P, 4=WH")
	if err := sess.ConfigureItems(session.IntegrationItems); err != nil {
		return err
	}

	sink, err := csv_sink.Open(cfg.OutputCsvPath(), csvHeader)
	if err != nil {
		return err
	}
	defer sink.Close()

	var hub *monitor.Hub
	if cfg.ListenPort != 0 {
		hub = monitor.NewHub()
		go hub.Serve(cfg.ListenAddress, cfg.ListenPort)
	}

	integ := integrator.New(sess, cfg.IntegrationIntervalSeconds)
	// Stop the integrator on every exit path so the instrument is not left
	// accumulating after the session ends. Best effort only.
	defer integ.Stop()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		logging.Info().Msg("Interrupt received, stopping after current poll")
		integ.RequestStop()
	}()

	logging.Info().Str("output", cfg.OutputCsvPath()).
		Int("interval_s", cfg.IntegrationIntervalSeconds).
		Msg("Starting integration loop")

	loopCount := 0
	for {
		if integ.Stopped() {
			logging.Info().Msg("Stopping integration loop")
			return nil
		}

		loopCount++
		logging.Info().Int("cycle", loopCount).Msg("Starting integration cycle")

		result, err := integ.RunCycle()
		if err != nil {
			if errors.Is(err, integrator.ErrInterrupted) {
				logging.Info().Msg("Cycle interrupted, stopping")
				return nil
			}
			if errors.Is(err, scpi.ErrIncompleteMeasurement) || errors.Is(err, scpi.ErrMalformedResponse) {
				// The cycle itself completed; only the value read was
				// unusable. Skip the sample and start the next cycle.
				logging.Warn().Err(err).Int("cycle", loopCount).Msg("Discarding cycle result")
				continue
			}
			// Unexpected state, poll timeout or transport fault: the
			// instrument state is indeterminate, end the session.
			return fmt.Errorf("cycle %d: %w", loopCount, err)
		}

		if err := persistCycle(sink, hub, cfg.IntegrationIntervalSeconds, result); err != nil {
			return err
		}
		logging.Info().Int("cycle", loopCount).Msg("Cycle completed")
	}
}

func persistCycle(sink *csv_sink.Writer, hub *monitor.Hub, intervalSeconds int, result *integrator.CycleResult) error {
	timestamp := result.Timestamp.Format(timestampFormat)

	logging.Info().
		Str("timestamp", timestamp).
		Float64("avg_power_w", result.AvgPowerW).
		Float64("interval_wh", result.WattHours).
		Float64("peak_voltage_v", result.PeakVoltageV).
		Float64("current_a", result.CurrentA).
		Float64("inst_power_w", result.InstPowerW).
		Msg("Integration sample")

	err := sink.Append([]string{
		timestamp,
		fmt.Sprintf("%.4f", result.AvgPowerW),
		fmt.Sprintf("%.6f", result.WattHours),
		fmt.Sprintf("%.4f", result.PeakVoltageV),
		fmt.Sprintf("%.4f", result.CurrentA),
		fmt.Sprintf("%.4f", result.InstPowerW),
	})
	if err != nil {
		return err
	}

	if hub != nil {
		hub.Publish(&samplefeed.SampleMessage{
			Mode:              samplefeed.ModeIntegrated,
			Timestamp:         result.Timestamp.Format(time.RFC3339),
			PeakVoltageV:      result.PeakVoltageV,
			CurrentA:          result.CurrentA,
			PowerW:            result.InstPowerW,
			IntervalSeconds:   intervalSeconds,
			IntervalWh:        result.WattHours,
			IntervalAvgPowerW: result.AvgPowerW,
		})
	}
	return nil
}
