// internal/monitor/types.go
package monitor

import "time"

// Sample is one channel's readings from a poll cycle.
type Sample struct {
	Channel int
	Current float64 // instantaneous, signed
	RMS     float64
}

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	Level int
	At    time.Time

	Samples []Sample
	Err     error // non-nil means the poll cycle failed
}
