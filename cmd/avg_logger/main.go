// Averaged logger: configures the analyzer to report averaged peak voltage,
// current and active power, then polls the value query on a fixed interval
// and appends each sample to CSV.
package main

import (
	"errors"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/benchkit/power_analyzer_logger/pkg/config"
	"github.com/benchkit/power_analyzer_logger/pkg/csv_sink"
	"github.com/benchkit/power_analyzer_logger/pkg/logging"
	"github.com/benchkit/power_analyzer_logger/pkg/monitor"
	"github.com/benchkit/power_analyzer_logger/pkg/samplefeed"
	"github.com/benchkit/power_analyzer_logger/pkg/scpi"
	"github.com/benchkit/power_analyzer_logger/pkg/session"
)

const timestampFormat = "2006-01-02 15:04:05"

var csvHeader = []string{
	"Timestamp",
	"Avg Peak Voltage (V+pk)",
	"Avg Current (A)",
	"Avg Power (W)",
}

func main() {
	if err := config.LoadAvgLoggerConfig(); err != nil {
		logging.Fatal().Err(err).Msg("Failed to load avg logger config")
	}
	cfg := config.ActiveAvgLoggerConfig

	if err := logging.Init(cfg.LogLevel); err != nil {
		logging.Fatal().Err(err).Msg("Invalid log level")
	}

	if err := run(cfg); err != nil {
		logging.Error().Err(err).Msg("Logger terminated on fault")
		os.Exit(1)
	}
}

func run(cfg *config.AvgLoggerConfig) error {
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

	logging.Info().Msg("Setting measurement items: 1=UPPeak, 2=I, 3=P")
	if err := sess.ConfigureItems(session.AveragingItems); err != nil {
		return err
	}
	if err := sess.ConfigureAveraging(cfg.AveragingCount); err != nil {
		return err
	}

	sink, err := csv_sink.Open(cfg.OutputCsvFile, csvHeader)
	if err != nil {
		return err
	}
	defer sink.Close()

	var hub *monitor.Hub
	if cfg.ListenPort != 0 {
		hub = monitor.NewHub()
		go hub.Serve(cfg.ListenAddress, cfg.ListenPort)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	logging.Info().Str("output", cfg.OutputCsvFile).
		Int("poll_interval_s", cfg.PollIntervalSeconds).
		Msg("Starting measurement loop")

	for {
		select {
		case <-interrupt:
			logging.Info().Msg("Interrupt received, stopping data logging")
			return nil
		default:
		}

		if err := logOneSample(sess, sink, hub); err != nil {
			return err
		}

		time.Sleep(time.Duration(cfg.PollIntervalSeconds) * time.Second)
	}
}

// logOneSample queries, parses and persists a single sample. Malformed and
// incomplete responses are warnings: the sample is dropped and the loop
// continues. Transport and persistence faults propagate and end the session.
func logOneSample(sess *session.Session, sink *csv_sink.Writer, hub *monitor.Hub) error {
	response, err := sess.Client().Query(":NUMERIC:NORMAL:VALUE?")
	if err != nil {
		return err
	}
	if response == "" {
		logging.Warn().Msg("No measurement response received this cycle")
		return nil
	}

	values, err := scpi.ParseValueList(response, sess.ItemCount())
	if err != nil {
		if errors.Is(err, scpi.ErrIncompleteMeasurement) || errors.Is(err, scpi.ErrMalformedResponse) {
			logging.Warn().Err(err).Str("response", response).Msg("Discarding sample")
			return nil
		}
		return err
	}

	timestamp := time.Now().Format(timestampFormat)
	logging.Info().
		Str("timestamp", timestamp).
		Float64("peak_voltage_v", values[0]).
		Float64("current_a", values[1]).
		Float64("power_w", values[2]).
		Msg("Sample")

	err = sink.Append([]string{
		timestamp,
		strconv.FormatFloat(values[0], 'f', -1, 64),
		strconv.FormatFloat(values[1], 'f', -1, 64),
		strconv.FormatFloat(values[2], 'f', -1, 64),
	})
	if err != nil {
		return err
	}

	if hub != nil {
		hub.Publish(&samplefeed.SampleMessage{
			Mode:         samplefeed.ModeAveraged,
			Timestamp:    time.Now().Format(time.RFC3339),
			PeakVoltageV: values[0],
			CurrentA:     values[1],
			PowerW:       values[2],
		})
	}
	return nil
}
