// Package pipeline drives records from a Reader through the Engine and hands
// each read and its outcome to the caller. One record is in flight at a time.
package pipeline

import (
	"errors"
	"io"

	"qfilt/internal/engine"
	"qfilt/internal/seqio"
)

// Visitor receives every read in input order together with its engine
// result. The record and the fragment slices are only valid for the call.
type Visitor func(rec *seqio.Record, res engine.Result) error

// Counts summarizes a finished run.
type Counts struct {
	Reads        int
	Contributing int
	Fragments    int
}

// ForEachRecord reads until EOF, applying eng to every record. It stops at
// the first read or visit error and returns it unchanged.
func ForEachRecord(rd *seqio.Reader, eng *engine.Engine, visit Visitor) (Counts, error) {
	var (
		c   Counts
		rec seqio.Record
	)
	for {
		err := rd.Read(&rec)
		if errors.Is(err, io.EOF) {
			return c, nil
		}
		if err != nil {
			return c, err
		}
		c.Reads++
		res := eng.Apply(&rec)
		if res.Contributing() {
			c.Contributing++
			c.Fragments += len(res.Fragments)
		}
		if err := visit(&rec, res); err != nil {
			return c, err
		}
	}
}
