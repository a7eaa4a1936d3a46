package pipeline

import (
	"errors"
	"strings"
	"testing"

	"qfilt/internal/engine"
	"qfilt/internal/seqio"
	"qfilt/internal/source"
)

func fastqReader(s string) *seqio.Reader {
	return seqio.NewFASTQReader(source.New(strings.NewReader(s), "in.fq"))
}

func TestForEachRecord(t *testing.T) {
	in := "@a\nACGTACGT\n+\nIIIIIIII\n" +
		"@b\nAC\n+\nII\n" +
		"@c\nACGTACGT\n+\nIIII!III\n"
	p := engine.DefaultPolicy()
	p.MinLength = 3
	p.Split = true

	var ids []string
	c, err := ForEachRecord(fastqReader(in), engine.New(p), func(rec *seqio.Record, res engine.Result) error {
		ids = append(ids, rec.ID+":"+res.Reason.String())
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachRecord: %v", err)
	}
	if got := strings.Join(ids, ","); got != "a:retained,b:too_short,c:retained" {
		t.Fatalf("visited %s", got)
	}
	// c splits into ACGT and CGT around the low base.
	if c.Reads != 3 || c.Contributing != 2 || c.Fragments != 3 {
		t.Fatalf("counts %+v", c)
	}
}

func TestForEachRecordStopsOnParseError(t *testing.T) {
	in := "@a\nACGT\n+\nIIII\n@b\nACGT\n+\nII\n"
	n := 0
	_, err := ForEachRecord(fastqReader(in), engine.New(engine.DefaultPolicy()), func(*seqio.Record, engine.Result) error {
		n++
		return nil
	})
	if !errors.Is(err, seqio.ErrLengthMismatch) {
		t.Fatalf("err = %v, want length mismatch", err)
	}
	if n != 1 {
		t.Fatalf("visited %d records before the error, want 1", n)
	}
}

func TestForEachRecordStopsOnVisitError(t *testing.T) {
	stop := errors.New("stop")
	in := "@a\nA\n+\nI\n@b\nA\n+\nI\n"
	c, err := ForEachRecord(fastqReader(in), engine.New(engine.DefaultPolicy()), func(*seqio.Record, engine.Result) error {
		return stop
	})
	if !errors.Is(err, stop) || c.Reads != 1 {
		t.Fatalf("err=%v counts=%+v", err, c)
	}
}
