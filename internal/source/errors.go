package source

import "fmt"

// ParseError is a structural input error at a known position.
// Err, when set, classifies the failure for errors.Is.
type ParseError struct {
	Pos Position
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Errorf builds a ParseError at the position of the next unread byte.
// kind may be nil.
func (s *Source) Errorf(kind error, format string, a ...any) error {
	return &ParseError{Pos: s.pos, Msg: fmt.Sprintf(format, a...), Err: kind}
}
