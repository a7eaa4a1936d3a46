package stats

import (
	"qfilt/internal/engine"
	"qfilt/internal/seqio"
)

// Aggregator is the run-wide statistics sink fed by the driving loop.
type Aggregator struct {
	Reads     Distribution // read lengths before filtering
	Fragments Distribution // retained fragment lengths
	Quality   QualityTally

	Contributing int
	Punched      int
	Discarded    map[engine.Reason]int
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{Discarded: make(map[engine.Reason]int)}
}

// AddRead records a parsed read before any filtering.
func (a *Aggregator) AddRead(rec *seqio.Record) {
	a.Reads.Add(rec.Len())
	a.Quality.Add(rec.Qual)
}

// AddResult records the engine outcome for one read. Split and truncate
// fragments count their effective length; punched fragments their full
// length.
func (a *Aggregator) AddResult(res engine.Result) {
	if !res.Contributing() {
		a.Discarded[res.Reason]++
		return
	}
	a.Contributing++
	a.Punched += res.Punched
	for _, f := range res.Fragments {
		a.Fragments.Add(f.Effective())
	}
}
