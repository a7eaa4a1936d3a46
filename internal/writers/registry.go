// internal/writers/registry.go
package writers

import (
	"errors"
	"fmt"
	"io"
	"syscall"

	"qfilt/internal/engine"
	"qfilt/internal/seqio"
)

// DefaultColumns is the sequence wrap width for FASTA output.
const DefaultColumns = 60

// FragmentWriter serializes retained fragments. Output is buffered until
// Flush.
type FragmentWriter interface {
	Write(id string, f engine.Fragment) error
	Flush() error
}

// Factory builds a FragmentWriter over w. cols <= 0 disables wrapping.
type Factory func(w io.Writer, cols int) FragmentWriter

// Writer registry (format → constructor). Register in init() blocks of the
// format files.
var factories = map[seqio.Format]Factory{}

// Register installs fn for format f (idempotent last-wins).
func Register(f seqio.Format, fn Factory) { factories[f] = fn }

// New returns the registered writer for format f.
func New(f seqio.Format, w io.Writer, cols int) (FragmentWriter, error) {
	fn, ok := factories[f]
	if !ok {
		return nil, fmt.Errorf("unknown output format %s (no writer registered)", f)
	}
	return fn(w, cols), nil
}

// header renders the record header line body. Split fragments after the
// first carry a 1-based fragment number.
func header(id string, index int) string {
	if index > 0 {
		return fmt.Sprintf("%s fragment=%d", id, index+1)
	}
	return id
}

// IsBrokenPipe reports whether err comes from writing to a reader that went
// away (EPIPE or a closed io.Pipe). Callers treat it as a clean exit.
func IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}
