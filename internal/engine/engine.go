// internal/engine/engine.go
package engine

import "qfilt/internal/seqio"

// Engine applies a Policy to records. It is safe to reuse across records.
type Engine struct {
	p Policy
}

// New returns an Engine for p. The policy is expected to have passed
// Validate; a minimum length below 1 is raised to 1.
func New(p Policy) *Engine {
	if p.MinLength < 1 {
		p.MinLength = 1
	}
	return &Engine{p: p}
}

// Policy returns the engine's policy.
func (e *Engine) Policy() Policy { return e.p }

// Apply scans rec and returns its retained fragments. rec must carry one
// quality score per base. Apply never modifies rec.
func (e *Engine) Apply(rec *seqio.Record) Result {
	if !e.p.Punching() && rec.Len() < e.p.MinLength {
		return Result{Reason: TooShort}
	}
	start, ok := e.matchTag(rec.Seq)
	if !ok {
		return Result{Reason: TagMismatch}
	}
	if e.p.Punching() {
		return e.punch(rec, start)
	}
	return e.fragment(rec, start)
}

// matchTag compares the read prefix with the tag and returns the offset
// where scanning starts.
func (e *Engine) matchTag(seq []byte) (int, bool) {
	tag := e.p.Tag
	if tag == "" {
		return 0, true
	}
	if len(seq) < len(tag) {
		return 0, false
	}
	mismatches := 0
	for i := 0; i < len(tag); i++ {
		if upper(seq[i]) != upper(tag[i]) {
			mismatches++
		}
	}
	return len(tag), mismatches <= e.p.TagMismatch
}

// punch substitutes every low-quality base after the tag. The read is
// dropped once substitutions exceed RemoveCount.
func (e *Engine) punch(rec *seqio.Record, start int) Result {
	n := rec.Len()
	if start >= n {
		return Result{Reason: NoFragment}
	}
	out := make([]byte, n-start)
	punched := 0
	for i := start; i < n; i++ {
		b := rec.Seq[i]
		if rec.Qual[i] < e.p.MinQuality {
			b = e.p.Punch
			punched++
			if e.p.RemoveCount >= 0 && punched > e.p.RemoveCount {
				return Result{Reason: TooManyPunched, Punched: punched}
			}
		}
		out[i-start] = b
	}
	return Result{
		Reason:  Retained,
		Punched: punched,
		Fragments: []Fragment{{
			Start: start,
			End:   n,
			Seq:   out,
			Qual:  rec.Qual[start:n],
		}},
	}
}

// fragment runs the split/truncate scan.
func (e *Engine) fragment(rec *seqio.Record, start int) Result {
	var (
		res    Result
		n      = rec.Len()
		minLen = e.p.MinLength
		minQ   = e.p.MinQuality
		// last offset a minimum-length fragment can start at
		maxStart = n - minLen
		pos      = start
	)
	for {
		for pos <= maxStart && rec.Qual[pos] < minQ {
			pos++
		}
		if pos > maxStart {
			break
		}

		from, ambig := pos, 0
		for ; pos < n; pos++ {
			if rec.Qual[pos] >= minQ {
				continue
			}
			b := rec.Seq[pos]
			// Homopolymer runs compare against the preceding scanned base.
			if e.p.Homopolymer && pos > from && upper(b) == upper(rec.Seq[pos-1]) {
				continue
			}
			if e.p.Ambiguous && (b == 'N' || b == 'n') {
				ambig++
				continue
			}
			break
		}

		if pos-from-ambig >= minLen {
			res.Fragments = append(res.Fragments, Fragment{
				Start:     from,
				End:       pos,
				Ambiguous: ambig,
				Index:     len(res.Fragments),
				Seq:       rec.Seq[from:pos],
				Qual:      rec.Qual[from:pos],
			})
		}
		if !e.p.Split {
			break
		}
	}
	if len(res.Fragments) == 0 {
		res.Reason = NoFragment
	}
	return res
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
