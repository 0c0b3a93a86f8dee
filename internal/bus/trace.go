// internal/bus/trace.go
package bus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"tinygo.org/x/drivers"
)

// Event is one recorded bus transaction.
// Integer keys keep the capture compact.
type Event struct {
	Time    time.Time `cbor:"1,keyasint"`
	Session string    `cbor:"2,keyasint"`
	Addr    uint16    `cbor:"3,keyasint"`
	Write   []byte    `cbor:"4,keyasint,omitempty"`
	Read    []byte    `cbor:"5,keyasint,omitempty"`
	Err     string    `cbor:"6,keyasint,omitempty"`
}

var traceEncMode cbor.EncMode

func init() {
	var err error
	traceEncMode, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create trace CBOR encoder mode: %v", err))
	}
}

// Recorder wraps a transport and appends every transaction to a CBOR file.
// It is safe for concurrent use.
type Recorder struct {
	next    drivers.I2C
	session string

	mu      sync.Mutex
	file    io.WriteCloser
	encoder *cbor.Encoder
	closed  bool
}

// NewRecorder appends to path, creating it with 0644 if needed.
func NewRecorder(next drivers.I2C, path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return newRecorder(next, f), nil
}

func newRecorder(next drivers.I2C, w io.WriteCloser) *Recorder {
	return &Recorder{
		next:    next,
		session: uuid.NewString(),
		file:    w,
		encoder: traceEncMode.NewEncoder(w),
	}
}

// Session identifies this process's events in a shared capture.
func (r *Recorder) Session() string { return r.session }

func (r *Recorder) Tx(addr uint16, w, rd []byte) error {
	err := r.next.Tx(addr, w, rd)

	ev := Event{
		Time:    time.Now(),
		Session: r.session,
		Addr:    addr,
		Write:   append([]byte(nil), w...),
	}
	if err != nil {
		ev.Err = err.Error()
	} else if len(rd) > 0 {
		ev.Read = append([]byte(nil), rd...)
	}

	r.mu.Lock()
	if !r.closed {
		// A capture failure must not fail the transaction.
		_ = r.encoder.Encode(ev)
	}
	r.mu.Unlock()

	return err
}

// Close closes the capture file. Safe to call more than once.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// ReadTrace decodes events from rd until EOF, calling fn for each.
func ReadTrace(rd io.Reader, fn func(Event) error) error {
	dec := cbor.NewDecoder(rd)
	for {
		var ev Event
		if err := dec.Decode(&ev); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("trace: decode: %w", err)
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
}
