// Responsible for archiving samples published by a logger's monitor feed.
// Depends on the integrate_logger monitor endpoint being online.
package main

import (
	"time"

	"github.com/benchkit/power_analyzer_logger/pkg/config"
	"github.com/benchkit/power_analyzer_logger/pkg/logging"
	"github.com/benchkit/power_analyzer_logger/pkg/sampledb"
	"github.com/benchkit/power_analyzer_logger/pkg/samplefeed"
)

func main() {
	if err := config.LoadSampleCollectorConfig(); err != nil {
		logging.Fatal().Err(err).Msg("Failed to load sample collector config")
	}
	cfg := config.ActiveSampleCollectorConfig

	if err := logging.Init(cfg.LogLevel); err != nil {
		logging.Fatal().Err(err).Msg("Invalid log level")
	}

	// Initialize database
	sampledb.InitializeDatabase()

	// Subscribe to the live feed with reconnect
	samplefeed.StartListener(cfg.MonitorHost, handleSample)
}

// Handle one sample from the feed
func handleSample(sample *samplefeed.SampleMessage) {
	ts, err := time.Parse(time.RFC3339, sample.Timestamp)
	if err != nil {
		logging.Warn().Str("timestamp", sample.Timestamp).Msg("Sample has unparseable timestamp, using receive time")
		ts = time.Now()
	}

	switch sample.Mode {
	case samplefeed.ModeIntegrated:
		err = sampledb.InsertIntegrationCycle(&sampledb.IntegrationCycleRow{
			Timestamp:       ts.Unix(),
			IntervalSeconds: sample.IntervalSeconds,
			IntervalWh:      sample.IntervalWh,
			AvgPowerW:       sample.IntervalAvgPowerW,
			PeakVoltageV:    sample.PeakVoltageV,
			CurrentA:        sample.CurrentA,
			InstPowerW:      sample.PowerW,
		})
	case samplefeed.ModeAveraged:
		err = sampledb.InsertAveragedSample(&sampledb.AveragedSampleRow{
			Timestamp:    ts.Unix(),
			PeakVoltageV: sample.PeakVoltageV,
			CurrentA:     sample.CurrentA,
			PowerW:       sample.PowerW,
		})
	default:
		logging.Warn().Str("mode", sample.Mode).Msg("Unknown sample mode, skipping")
		return
	}

	if err != nil {
		logging.Error().Err(err).Msg("Failed to archive sample")
	}
}
