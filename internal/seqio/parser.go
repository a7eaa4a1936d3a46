// internal/seqio/parser.go
package seqio

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"qfilt/internal/source"
)

type state int

const (
	seeking state = iota
	readingID
	readingSequence
	readingQuality
)

// Parser is the per-stream state machine. A FASTA parser fills ID and Seq,
// a FASTQ parser fills ID, Seq and Qual, and a QUAL parser fills only Qual
// (its headers are read and dropped).
//
// After the first error every call to Next returns that error.
type Parser struct {
	src    *source.Source
	format Format
	state  state
	err    error

	recPos source.Position // position of the current record's marker

	// Parser-owned scratch, reused across records.
	id []byte
	qs []byte
}

// NewParser returns a parser reading records of format f from src.
func NewParser(src *source.Source, f Format) *Parser {
	return &Parser{src: src, format: f}
}

// Format returns the stream format.
func (p *Parser) Format() Format { return p.format }

// RecordPos is the position of the marker of the last record started.
func (p *Parser) RecordPos() source.Position { return p.recPos }

// Next advances the machine through one record, writing this stream's
// fields into rec. It returns io.EOF when the stream is exhausted between
// records; that is the only non-error end.
func (p *Parser) Next(rec *Record) error {
	if p.err != nil {
		return p.err
	}
	if err := p.step(rec); err != nil {
		return p.fail(err)
	}
	for p.state != seeking {
		if err := p.step(rec); err != nil {
			return p.fail(err)
		}
	}
	return nil
}

func (p *Parser) fail(err error) error {
	p.err = err
	return err
}

func (p *Parser) step(rec *Record) error {
	switch p.state {
	case seeking:
		return p.seek()
	case readingID:
		return p.readID(rec)
	case readingSequence:
		return p.readSequence(rec)
	case readingQuality:
		if p.format == QUAL {
			return p.readQualScores(rec)
		}
		return p.readQualLine(rec)
	}
	return fmt.Errorf("seqio: invalid parser state %d", p.state)
}

func (p *Parser) ioError(err error) error {
	return fmt.Errorf("read %s: %w", p.src.Name(), err)
}

func (p *Parser) seek() error {
	if err := p.src.SkipSpace(); err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return p.ioError(err)
	}
	p.recPos = p.src.Pos()
	b, err := p.src.ReadByte()
	if err != nil {
		return p.ioError(err)
	}
	if want := p.format.marker(); b != want {
		_ = p.src.UnreadByte()
		return p.src.Errorf(ErrMalformed, "malformed %s file: expected '%c', found '%c'", p.format, want, b)
	}
	p.state = readingID
	return nil
}

func (p *Parser) readID(rec *Record) error {
	var err error
	p.id, err = p.src.ReadUntil(p.id[:0], "\r\n")
	if err != nil && err != io.EOF {
		return p.ioError(err)
	}
	id := parseHeaderID(p.id)
	if len(id) == 0 {
		return p.src.Errorf(ErrMissingID, "malformed %s file: missing ID", p.format)
	}
	if p.format != QUAL {
		rec.ID = string(id)
	}
	if err := p.endLine(); err != nil {
		return err
	}
	if p.format == QUAL {
		p.state = readingQuality
	} else {
		p.state = readingSequence
	}
	return nil
}

// readSequence collects bases up to the next record marker ('>' for FASTA)
// or the '+' separator (FASTQ), dropping line breaks and blanks.
func (p *Parser) readSequence(rec *Record) error {
	delim := byte('>')
	if p.format == FASTQ {
		delim = '+'
	}
	eof := false
	for {
		b, err := p.src.ReadByte()
		if err == io.EOF {
			eof = true
			break
		}
		if err != nil {
			return p.ioError(err)
		}
		if b == delim {
			_ = p.src.UnreadByte()
			break
		}
		if source.IsSpace(b) {
			continue
		}
		rec.Seq = append(rec.Seq, b)
	}
	if len(rec.Seq) == 0 {
		return p.src.Errorf(ErrMissingSequence, "malformed %s file: missing sequence for %q", p.format, rec.ID)
	}
	if p.format == FASTA {
		p.state = seeking
		return nil
	}
	if eof {
		return p.src.Errorf(ErrTruncated, "malformed FASTQ file: missing '+' separator for %q", rec.ID)
	}
	// The separator line may repeat the ID; it is ignored.
	if err := p.src.SkipLine(); err != nil && err != io.EOF {
		return p.ioError(err)
	}
	p.state = readingQuality
	return nil
}

// readQualLine decodes one Phred+33 line. '@' is quality 31 here, not a
// record marker, so only the line end terminates the scan.
func (p *Parser) readQualLine(rec *Record) error {
	var err error
	p.qs, err = p.src.ReadUntil(p.qs[:0], "\r\n")
	if err != nil && err != io.EOF {
		return p.ioError(err)
	}
	line := bytes.TrimRight(p.qs, " \t")
	if len(line) == 0 {
		return p.src.Errorf(ErrMissingQuality, "malformed FASTQ file: missing quality scores for %q", rec.ID)
	}
	for i, c := range line {
		if c < '!' {
			return p.src.Errorf(ErrBadQuality, "invalid quality character 0x%02x at offset %d of %q", c, i, rec.ID)
		}
		rec.Qual = append(rec.Qual, int(c)-33)
	}
	if err := p.endLine(); err != nil {
		return err
	}
	p.state = seeking
	return nil
}

// readQualScores reads whitespace-separated integers up to the next '>'.
func (p *Parser) readQualScores(rec *Record) error {
	for {
		if err := p.src.SkipSpace(); err == io.EOF {
			break
		} else if err != nil {
			return p.ioError(err)
		}
		if b, _ := p.src.Peek(); b == '>' {
			break
		}
		pos := p.src.Pos()
		var err error
		p.qs, err = p.src.ReadUntil(p.qs[:0], " \t\r\n>")
		if err != nil && err != io.EOF {
			return p.ioError(err)
		}
		q, convErr := strconv.Atoi(string(p.qs))
		if convErr != nil || q < 0 {
			return &source.ParseError{
				Pos: pos,
				Msg: fmt.Sprintf("malformed QUAL file: invalid quality score %q", p.qs),
				Err: ErrBadQuality,
			}
		}
		rec.Qual = append(rec.Qual, q)
		if err == io.EOF {
			break
		}
	}
	if len(rec.Qual) == 0 {
		return p.src.Errorf(ErrMissingQuality, "malformed QUAL file: missing quality scores")
	}
	p.state = seeking
	return nil
}

// endLine consumes a "\n", "\r\n" or lone "\r" line ending, if present.
func (p *Parser) endLine() error {
	b, err := p.src.ReadByte()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return p.ioError(err)
	}
	switch b {
	case '\n':
		return nil
	case '\r':
		nb, err := p.src.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return p.ioError(err)
		}
		if nb != '\n' {
			return p.src.UnreadByte()
		}
		return nil
	}
	return p.src.UnreadByte()
}

// parseHeaderID returns the header text up to the first blank.
func parseHeaderID(hdr []byte) []byte {
	hdr = bytes.TrimLeft(hdr, " \t")
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return hdr[:i]
	}
	return hdr
}
