// internal/status/constants.go
package status

// Code is the result of one command invocation.
// The values are the process exit codes and MUST NOT change.
type Code int

// ---- RESULT CODES ----

// OK means the command completed.
const OK Code = 0

// Error means board init, bus read or bus write failed.
const Error Code = 1

// ArgCount means the command was given the wrong number of arguments.
const ArgCount Code = 2

// ArgRange means a channel or value was outside its accepted domain.
const ArgRange Code = 3

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case Error:
		return "ERROR"
	case ArgCount:
		return "ARG_CNT_ERR"
	case ArgRange:
		return "ARG_RANGE_ERROR"
	default:
		return "UNKNOWN"
	}
}

// ---- STATUS BLOCK GEOMETRY ----

// Published status block layout. These values are a wire contract
// with Modbus readers and are not configurable.

// SlotsPerDevice is the number of holding registers per board.
const SlotsPerDevice = 20

const (
	SlotHealthCode     = 0
	SlotLastErrorCode  = 1
	SlotSecondsInError = 2
	// Slots 3..10 are reserved and written as zero.
)

// SlotDeviceNameStart is the first slot of the device name,
// which always sits at the end of the block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots holds DeviceNameMaxChars, two ASCII bytes per slot.
const SlotDeviceNameSlots = 8

const DeviceNameMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown represents the state before the first poll.
const HealthUnknown uint16 = 0

// HealthOK represents a board answering every poll.
const HealthOK uint16 = 1

// HealthError represents a board whose last poll failed.
const HealthError uint16 = 2
