// Package source is the buffered byte stream the record parsers read from.
//
// A Source tracks the line and column of the next unread byte so parse
// errors can point at the offending input, and keeps a one-byte lookahead
// slot so a parser can hand the byte that ended one state to the next.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnreadTwice is returned by UnreadByte when there is no byte to put back.
var ErrUnreadTwice = errors.New("source: unread without a preceding read")

// Position is a 1-based line/column location in a named stream.
type Position struct {
	File string
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// Source is a byte stream with position tracking. It is not safe for
// concurrent use.
type Source struct {
	r    *bufio.Reader
	pos  Position
	prev Position // position before the last ReadByte

	last      byte
	ahead     bool // last is sitting in the lookahead slot
	canUnread bool
}

const bufSize = 64 * 1024

// New wraps r. name is reported in positions and errors.
func New(r io.Reader, name string) *Source {
	return &Source{
		r:   bufio.NewReaderSize(r, bufSize),
		pos: Position{File: name, Line: 1, Col: 1},
	}
}

// Name returns the stream name given to New.
func (s *Source) Name() string { return s.pos.File }

// Pos returns the position of the next unread byte.
func (s *Source) Pos() Position { return s.pos }

// ReadByte consumes one byte. It returns io.EOF at the end of the stream.
// A newline moves to column 1 of the next line; a carriage return does not
// move the column.
func (s *Source) ReadByte() (byte, error) {
	var b byte
	if s.ahead {
		b = s.last
		s.ahead = false
	} else {
		c, err := s.r.ReadByte()
		if err != nil {
			s.canUnread = false
			return 0, err
		}
		b = c
	}
	s.last = b
	s.prev = s.pos
	s.canUnread = true
	switch b {
	case '\n':
		s.pos.Line++
		s.pos.Col = 1
	case '\r':
	default:
		s.pos.Col++
	}
	return b, nil
}

// UnreadByte puts the last byte back. Only one byte of lookahead is kept.
func (s *Source) UnreadByte() error {
	if !s.canUnread {
		return ErrUnreadTwice
	}
	s.ahead = true
	s.canUnread = false
	s.pos = s.prev
	return nil
}

// Peek returns the next byte without consuming it.
func (s *Source) Peek() (byte, error) {
	b, err := s.ReadByte()
	if err != nil {
		return 0, err
	}
	return b, s.UnreadByte()
}

// IsSpace reports whether b is a space, tab, carriage return or newline.
func IsSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// SkipSpace consumes whitespace and leaves the next non-space byte unread.
// It returns io.EOF if the stream ends first.
func (s *Source) SkipSpace() error {
	for {
		b, err := s.ReadByte()
		if err != nil {
			return err
		}
		if !IsSpace(b) {
			return s.UnreadByte()
		}
	}
}

// SkipLine consumes everything up to and including the next newline.
func (s *Source) SkipLine() error {
	for {
		b, err := s.ReadByte()
		if err != nil {
			return err
		}
		if b == '\n' {
			return nil
		}
	}
}

// ReadUntil appends bytes to dst until one of delims is seen. The delimiter
// stays unread. At the end of the stream it returns what was read together
// with io.EOF.
func (s *Source) ReadUntil(dst []byte, delims string) ([]byte, error) {
	for {
		b, err := s.ReadByte()
		if err != nil {
			return dst, err
		}
		if strings.IndexByte(delims, b) >= 0 {
			return dst, s.UnreadByte()
		}
		dst = append(dst, b)
	}
}
