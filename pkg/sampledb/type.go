package sampledb

type AveragedSampleRow struct {
	Timestamp    int64   `db:"timestamp"`
	PeakVoltageV float64 `db:"peak_voltage_v"`
	CurrentA     float64 `db:"current_a"`
	PowerW       float64 `db:"power_w"`
}

type IntegrationCycleRow struct {
	Timestamp       int64   `db:"timestamp"`
	IntervalSeconds int     `db:"interval_seconds"`
	IntervalWh      float64 `db:"interval_wh"`
	AvgPowerW       float64 `db:"avg_power_w"`
	PeakVoltageV    float64 `db:"peak_voltage_v"`
	CurrentA        float64 `db:"current_a"`
	InstPowerW      float64 `db:"inst_power_w"`
}
