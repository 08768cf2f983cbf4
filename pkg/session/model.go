package session

import "fmt"

var ErrNoIdentity = fmt.Errorf("no response to identity query")

// MeasurementItem is a measurement function assignable to a numeric item slot.
type MeasurementItem string

const (
	// Positive peak voltage
	ItemPeakVoltage MeasurementItem = "UPPeak"
	// Current
	ItemCurrent MeasurementItem = "I"
	// Active power
	ItemActivePower MeasurementItem = "P"
	// Accumulated watt-hours
	ItemWattHours MeasurementItem = "WH"
)

// MaxItemSlots is the number of numeric item slots the value query can report.
const MaxItemSlots = 4

// AveragingItems is the slot layout for plain averaged logging.
var AveragingItems = []MeasurementItem{ItemPeakVoltage, ItemCurrent, ItemActivePower}

// IntegrationItems extends the averaging layout with accumulated watt-hours.
var IntegrationItems = []MeasurementItem{ItemPeakVoltage, ItemCurrent, ItemActivePower, ItemWattHours}
