// internal/source/open.go
package source

import (
	"io"
	"os"
)

// File is a Source over an opened path.
type File struct {
	*Source
	c io.Closer
}

// Close releases the underlying file. Closing stdin is a no-op.
func (f *File) Close() error {
	if f.c == nil {
		return nil
	}
	return f.c.Close()
}

// Open opens path for reading; "-" is standard input.
func Open(path string) (*File, error) {
	if path == "-" {
		return &File{Source: New(os.Stdin, "<stdin>")}, nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &File{Source: New(fh, path), c: fh}, nil
}
