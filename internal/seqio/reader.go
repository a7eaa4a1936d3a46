package seqio

import (
	"fmt"
	"io"

	"qfilt/internal/source"
)

// Reader yields complete records from a FASTQ stream or a FASTA+QUAL pair.
type Reader struct {
	primary *Parser
	qual    *Parser // nil unless reading a FASTA+QUAL pair

	spare Record // sink for QUAL records read past the FASTA end
}

// NewFASTQReader reads FASTQ records from src.
func NewFASTQReader(src *source.Source) *Reader {
	return &Reader{primary: NewParser(src, FASTQ)}
}

// NewPairReader reads FASTA records from fasta and their scores from qual.
// QUAL headers are not matched against FASTA headers; records pair up by
// order.
func NewPairReader(fasta, qual *source.Source) *Reader {
	return &Reader{
		primary: NewParser(fasta, FASTA),
		qual:    NewParser(qual, QUAL),
	}
}

// Read resets rec and fills it with the next record. It returns io.EOF
// once the primary stream is exhausted. Structural problems are returned
// as *source.ParseError.
func (r *Reader) Read(rec *Record) error {
	rec.Reset()
	if err := r.primary.Next(rec); err != nil {
		if err == io.EOF && r.qual != nil {
			return r.drainQual()
		}
		return err
	}
	if r.qual != nil {
		if err := r.qual.Next(rec); err != nil {
			if err == io.EOF {
				return r.qual.src.Errorf(ErrDiscordant,
					"QUAL file ended before FASTA record %q", rec.ID)
			}
			return err
		}
	}
	if len(rec.Seq) != len(rec.Qual) {
		return &source.ParseError{
			Pos: r.primary.RecordPos(),
			Msg: fmt.Sprintf("record %q: sequence length (%d) does not match the number of quality scores (%d)",
				rec.ID, len(rec.Seq), len(rec.Qual)),
			Err: ErrLengthMismatch,
		}
	}
	return nil
}

func (r *Reader) drainQual() error {
	r.spare.Reset()
	err := r.qual.Next(&r.spare)
	switch {
	case err == io.EOF:
		return io.EOF
	case err != nil:
		return err
	}
	return &source.ParseError{
		Pos: r.qual.RecordPos(),
		Msg: "QUAL file has more records than the FASTA file",
		Err: ErrDiscordant,
	}
}

// ReadAll reads every remaining record.
func (r *Reader) ReadAll() ([]Record, error) {
	var out []Record
	for {
		var rec Record
		err := r.Read(&rec)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}
