// internal/status/status_test.go
package status

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sm8crt/crt8/internal/crt"
	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		err  error
		want Code
	}{
		{nil, OK},
		{&crt.ArgCountError{Verb: "rd", Got: 0}, ArgCount},
		{&crt.RangeError{What: "channel", Got: "9", Domain: "1..8"}, ArgRange},
		{fmt.Errorf("wrapped: %w", &crt.RangeError{}), ArgRange},
		{&crt.DeviceError{Op: "read", Err: errors.New("nack")}, Error},
		{errors.New("anything else"), Error},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FromError(c.err), "err=%v", c.err)
	}
}

func TestCodeStrings(t *testing.T) {
	assert.Equal(t, "OK", OK.String())
	assert.Equal(t, "ERROR", Error.String())
	assert.Equal(t, "ARG_CNT_ERR", ArgCount.String())
	assert.Equal(t, "ARG_RANGE_ERROR", ArgRange.String())
}

func TestSnapshot_ErrorThenRecovery(t *testing.T) {
	var s Snapshot

	assert.True(t, s.Observe(nil))
	assert.Equal(t, HealthOK, s.Health)
	assert.False(t, s.Observe(nil))

	dev := &crt.DeviceError{Op: "read", Err: errors.New("nack")}
	assert.True(t, s.Observe(dev))
	assert.False(t, s.Observe(dev))
	assert.Equal(t, Error, s.LastError)

	s.Tick()
	s.Tick()
	assert.Equal(t, uint16(2), s.SecondsInError)

	assert.True(t, s.Observe(nil))
	assert.Zero(t, s.SecondsInError)

	s.Tick()
	assert.Zero(t, s.SecondsInError)
}
