package sampledb

func InsertAveragedSample(row *AveragedSampleRow) error {
	db := GetDB()

	_, err := db.Exec(
		"INSERT INTO averaged_samples (timestamp, peak_voltage_v, current_a, power_w) "+
			"VALUES (?, ?, ?, ?)",
		row.Timestamp,
		row.PeakVoltageV,
		row.CurrentA,
		row.PowerW,
	)
	if err != nil {
		return err
	}
	return nil
}

func InsertIntegrationCycle(row *IntegrationCycleRow) error {
	db := GetDB()

	_, err := db.Exec(
		"INSERT INTO integration_cycles "+
			"(timestamp, interval_seconds, interval_wh, avg_power_w, peak_voltage_v, current_a, inst_power_w) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?)",
		row.Timestamp,
		row.IntervalSeconds,
		row.IntervalWh,
		row.AvgPowerW,
		row.PeakVoltageV,
		row.CurrentA,
		row.InstPowerW,
	)
	if err != nil {
		return err
	}
	return nil
}
