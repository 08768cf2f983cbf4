package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIntegrateLoggerConfigCreatesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PA_LOGGER_CONFIG_DIR", dir)

	require.NoError(t, LoadIntegrateLoggerConfig())
	require.NotNil(t, ActiveIntegrateLoggerConfig)
	assert.Equal(t, 10, ActiveIntegrateLoggerConfig.IntegrationIntervalSeconds)
	assert.Equal(t, uint(115200), ActiveIntegrateLoggerConfig.Baudrate)

	// Default file must exist for the operator to edit
	_, err := os.Stat(filepath.Join(dir, "integrate_logger.toml"))
	assert.NoError(t, err)
}

func TestLoadAvgLoggerConfigReadsExisting(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PA_LOGGER_CONFIG_DIR", dir)

	existing := `serial_device = "/dev/ttyACM3"
baudrate = 9600
averaging_count = 64
poll_interval_seconds = 2
output_csv_file = "bench_run.csv"
log_level = "debug"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "avg_logger.toml"), []byte(existing), 0644))

	require.NoError(t, LoadAvgLoggerConfig())
	cfg := ActiveAvgLoggerConfig
	assert.Equal(t, "/dev/ttyACM3", cfg.SerialDevice)
	assert.Equal(t, uint(9600), cfg.Baudrate)
	assert.Equal(t, 64, cfg.AveragingCount)
	assert.Equal(t, "bench_run.csv", cfg.OutputCsvFile)
}

func TestOutputCsvPath(t *testing.T) {
	cfg := &IntegrateLoggerConfig{IntegrationIntervalSeconds: 10}
	assert.Equal(t, "power_data_integrated_10s.csv", cfg.OutputCsvPath())

	cfg.OutputCsvFile = "custom.csv"
	assert.Equal(t, "custom.csv", cfg.OutputCsvPath())
}
