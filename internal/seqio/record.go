package seqio

import (
	"errors"
	"fmt"
	"strings"
)

// Format is an input or output sequence format.
type Format int

const (
	FASTA Format = iota
	QUAL
	FASTQ
)

func (f Format) String() string {
	switch f {
	case FASTA:
		return "FASTA"
	case QUAL:
		return "QUAL"
	case FASTQ:
		return "FASTQ"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// marker is the byte that opens a record.
func (f Format) marker() byte {
	if f == FASTQ {
		return '@'
	}
	return '>'
}

// ParseFormat maps an output format name (case-insensitive) to a Format.
// Only FASTA and FASTQ are valid output formats.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FASTA":
		return FASTA, nil
	case "FASTQ":
		return FASTQ, nil
	}
	return 0, fmt.Errorf("invalid format %q (want FASTA or FASTQ)", s)
}

// Structural parse failures. Parse errors are *source.ParseError values
// wrapping one of these.
var (
	ErrMalformed       = errors.New("malformed record")
	ErrMissingID       = errors.New("missing ID")
	ErrMissingSequence = errors.New("missing sequence")
	ErrMissingQuality  = errors.New("missing quality scores")
	ErrBadQuality      = errors.New("invalid quality score")
	ErrTruncated       = errors.New("truncated record")
	ErrLengthMismatch  = errors.New("sequence/quality length mismatch")
	ErrDiscordant      = errors.New("discordant FASTA/QUAL streams")
)

// Record is one read. Qual holds one Phred score per base when the input
// carries qualities.
type Record struct {
	ID   string
	Seq  []byte
	Qual []int
}

// Len is the number of bases.
func (r *Record) Len() int { return len(r.Seq) }

// Reset empties the record for reuse, keeping allocated capacity.
func (r *Record) Reset() {
	r.ID = ""
	r.Seq = r.Seq[:0]
	r.Qual = r.Qual[:0]
}
