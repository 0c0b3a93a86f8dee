// internal/status/encode.go
package status

import (
	"errors"

	"github.com/sm8crt/crt8/internal/crt"
)

// FromError maps an error onto a result code.
// Unclassified errors are reported as Error.
func FromError(err error) Code {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, crt.ErrArgCount):
		return ArgCount
	case errors.Is(err, crt.ErrRange):
		return ArgRange
	default:
		return Error
	}
}
