package samplefeed

import "encoding/json"

const (
	ModeAveraged   = "averaged"
	ModeIntegrated = "integrated"
)

// SampleMessage is the wire format for one logged sample on the live feed.
// Averaged samples leave the integration fields zero.
type SampleMessage struct {
	Mode      string `json:"mode"`
	Timestamp string `json:"timestamp"`

	PeakVoltageV float64 `json:"peak_voltage_v"`
	CurrentA     float64 `json:"current_a"`
	PowerW       float64 `json:"power_w"`

	// Integration mode only
	IntervalSeconds   int     `json:"interval_seconds,omitempty"`
	IntervalWh        float64 `json:"interval_wh,omitempty"`
	IntervalAvgPowerW float64 `json:"interval_avg_power_w,omitempty"`
}

func (m *SampleMessage) ToJsonBytes() []byte {
	data, err := json.Marshal(m)
	if err != nil {
		return []byte("{}")
	}
	return data
}

func SampleFromJsonBytes(data []byte) *SampleMessage {
	var m SampleMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return &m
}
