package engine

// Fragment is a retained span [Start, End) of one record.
//
// Seq and Qual are views into the record (Seq is a private copy in punch
// mode) and are only valid until the record is reset.
type Fragment struct {
	Start     int
	End       int
	Ambiguous int // tolerated low-quality N bases inside the span
	Index     int // 0 for the first fragment of a read

	Seq  []byte
	Qual []int
}

// Len is the span length.
func (f Fragment) Len() int { return f.End - f.Start }

// Effective is the length that counts against the minimum: tolerated
// ambiguous bases are excluded.
func (f Fragment) Effective() int { return f.Len() - f.Ambiguous }

// Reason says why a record did or did not contribute fragments.
type Reason int

const (
	Retained Reason = iota
	TooShort
	TagMismatch
	TooManyPunched
	NoFragment
)

// Reasons lists every Reason in declaration order.
var Reasons = []Reason{Retained, TooShort, TagMismatch, TooManyPunched, NoFragment}

func (r Reason) String() string {
	switch r {
	case Retained:
		return "retained"
	case TooShort:
		return "too_short"
	case TagMismatch:
		return "tag_mismatch"
	case TooManyPunched:
		return "too_many_punched"
	case NoFragment:
		return "no_fragment"
	}
	return "unknown"
}

// Result is the outcome of applying a policy to one record.
type Result struct {
	Fragments []Fragment
	Reason    Reason
	Punched   int // substitutions made (punch mode)
}

// Contributing reports whether the record produced at least one fragment.
func (r Result) Contributing() bool { return len(r.Fragments) > 0 }
