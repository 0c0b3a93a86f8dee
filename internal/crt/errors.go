// internal/crt/errors.go
package crt

import (
	"errors"
	"fmt"
)

var (
	// ErrArgCount is matched by every *ArgCountError.
	ErrArgCount = errors.New("invalid number of arguments")

	// ErrRange is matched by every *RangeError.
	ErrRange = errors.New("argument out of range")

	// ErrDevice is matched by every *DeviceError.
	ErrDevice = errors.New("device error")
)

// ArgCountError reports a command invoked with the wrong arity.
// It is raised before any device access.
type ArgCountError struct {
	Verb string
	Got  int
}

func (e *ArgCountError) Error() string {
	return fmt.Sprintf("%s: %v (got %d)", e.Verb, ErrArgCount, e.Got)
}

func (e *ArgCountError) Is(target error) bool { return target == ErrArgCount }

// RangeError reports a channel or value outside its accepted domain.
// Domain is printed verbatim so the user sees the valid values.
type RangeError struct {
	What   string
	Got    string
	Domain string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %s out of range! [%s]", e.What, e.Got, e.Domain)
}

func (e *RangeError) Is(target error) bool { return target == ErrRange }

// DeviceError wraps a board init, bus read or bus write failure.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	if e.Err == nil {
		return "fail to " + e.Op
	}
	return fmt.Sprintf("fail to %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

func (e *DeviceError) Is(target error) bool { return target == ErrDevice }

// Device wraps err as a *DeviceError for op. A nil err stays nil.
func Device(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *DeviceError
	if errors.As(err, &de) {
		return err
	}
	return &DeviceError{Op: op, Err: err}
}
