package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/benchkit/power_analyzer_logger/pkg/pathing"
)

var (
	ActiveAvgLoggerConfig       *AvgLoggerConfig
	ActiveIntegrateLoggerConfig *IntegrateLoggerConfig
	ActiveSampleCollectorConfig *SampleCollectorConfig
)

func LoadAvgLoggerConfig() error {
	cfg := &AvgLoggerConfig{
		SerialDevice:        "/dev/ttyUSB0",
		Baudrate:            115200,
		AveragingCount:      16,
		PollIntervalSeconds: 1,
		OutputCsvFile:       "power_data_averaged_peakV.csv",
		ListenAddress:       "0.0.0.0",
		ListenPort:          0,
		LogLevel:            "info",
	}
	if err := loadOrCreate("avg_logger.toml", cfg); err != nil {
		return err
	}
	ActiveAvgLoggerConfig = cfg
	return nil
}

func LoadIntegrateLoggerConfig() error {
	cfg := &IntegrateLoggerConfig{
		SerialDevice:               "/dev/ttyUSB0",
		Baudrate:                   115200,
		IntegrationIntervalSeconds: 10,
		OutputCsvFile:              "",
		ListenAddress:              "0.0.0.0",
		ListenPort:                 0,
		LogLevel:                   "info",
	}
	if err := loadOrCreate("integrate_logger.toml", cfg); err != nil {
		return err
	}
	ActiveIntegrateLoggerConfig = cfg
	return nil
}

func LoadSampleCollectorConfig() error {
	cfg := &SampleCollectorConfig{
		MonitorHost: "localhost:9041",
		LogLevel:    "info",
	}
	if err := loadOrCreate("sample_collector.toml", cfg); err != nil {
		return err
	}
	ActiveSampleCollectorConfig = cfg
	return nil
}

// OutputCsvPath resolves the integrate_logger output file, deriving a name
// from the interval when none is configured.
func (c *IntegrateLoggerConfig) OutputCsvPath() string {
	if c.OutputCsvFile != "" {
		return c.OutputCsvFile
	}
	return fmt.Sprintf("power_data_integrated_%ds.csv", c.IntegrationIntervalSeconds)
}

// loadOrCreate fills cfg from the named file in the config dir, writing the
// passed-in defaults as a new file when none exists yet.
func loadOrCreate(filename string, cfg any) error {
	configPath := filepath.Join(pathing.GetConfigDir(), filename)

	// Create default if not exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfgFile, err := os.Create(configPath)
		if err != nil {
			return err
		}
		defer cfgFile.Close()
		return toml.NewEncoder(cfgFile).Encode(cfg)
	}

	// Load existing config
	_, err := toml.DecodeFile(configPath, cfg)
	return err
}
