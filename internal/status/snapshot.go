// internal/status/snapshot.go
package status

// Snapshot is the health of one polled board.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastError      Code
	SecondsInError uint16
}

// Observe folds one poll outcome into s and reports whether it changed.
// SecondsInError is advanced by Tick only.
func (s *Snapshot) Observe(err error) bool {
	if err == nil {
		changed := s.Health != HealthOK || s.LastError != OK || s.SecondsInError != 0
		s.Health, s.LastError, s.SecondsInError = HealthOK, OK, 0
		return changed
	}
	code := FromError(err)
	changed := s.Health != HealthError || s.LastError != code
	s.Health, s.LastError = HealthError, code
	return changed
}

// Tick advances SecondsInError while the board is not healthy.
func (s *Snapshot) Tick() {
	if s.Health != HealthOK && s.SecondsInError < 65535 {
		s.SecondsInError++
	}
}
