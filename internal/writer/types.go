// internal/writer/types.go
package writer

// Plan is where one board's watch output lands on a Modbus target.
type Plan struct {
	Endpoint string
	UnitID   uint8

	// DataAddr is the first holding register of the data block:
	// Channels raw currents (int16) followed by Channels raw RMS values.
	DataAddr uint16
	Channels int
	Scale    float64

	Status *StatusPlan // nil = no status block
}

// StatusPlan places the board status block.
type StatusPlan struct {
	// BaseSlot is in units of status.SlotsPerDevice registers.
	BaseSlot   uint16
	DeviceName string
}
