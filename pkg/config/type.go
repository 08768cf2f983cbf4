package config

type AvgLoggerConfig struct {
	SerialDevice        string `toml:"serial_device"`
	Baudrate            uint   `toml:"baudrate"`
	AveragingCount      int    `toml:"averaging_count"` // 1, 2, 4, 8, 16, 32, 64
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	OutputCsvFile       string `toml:"output_csv_file"`
	// Live monitor endpoint; port 0 disables it.
	ListenAddress string `toml:"listen_address"`
	ListenPort    int    `toml:"listen_port"`
	LogLevel      string `toml:"log_level"`
}

type IntegrateLoggerConfig struct {
	SerialDevice               string `toml:"serial_device"`
	Baudrate                   uint   `toml:"baudrate"`
	IntegrationIntervalSeconds int    `toml:"integration_interval_seconds"`
	// Empty means a name derived from the interval.
	OutputCsvFile string `toml:"output_csv_file"`
	// Live monitor endpoint; port 0 disables it.
	ListenAddress string `toml:"listen_address"`
	ListenPort    int    `toml:"listen_port"`
	LogLevel      string `toml:"log_level"`
}

type SampleCollectorConfig struct {
	// host:port of the integrate_logger monitor endpoint
	MonitorHost string `toml:"monitor_host"`
	LogLevel    string `toml:"log_level"`
}
