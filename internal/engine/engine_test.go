// internal/engine/engine_test.go
package engine

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"qfilt/internal/seqio"
)

func rec(seq string, qual ...int) *seqio.Record {
	return &seqio.Record{ID: "r", Seq: []byte(seq), Qual: qual}
}

func flat(n, q int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = q
	}
	return out
}

type span struct{ start, end, ambig, index int }

func spans(res Result) []span {
	var out []span
	for _, f := range res.Fragments {
		out = append(out, span{f.Start, f.End, f.Ambiguous, f.Index})
	}
	return out
}

// Leading [25,25] run is too short, the low run is skipped, the tail is kept.
func TestSplitSkipsShortLeadingRun(t *testing.T) {
	e := New(Policy{MinLength: 4, MinQuality: 20, Split: true})
	res := e.Apply(rec("ACGTACGT", 25, 25, 5, 5, 25, 25, 25, 25))

	want := []span{{4, 8, 0, 0}}
	if got := spans(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("fragments = %v, want %v", got, want)
	}
	if res.Reason != Retained || !res.Contributing() {
		t.Errorf("reason = %v", res.Reason)
	}
	if string(res.Fragments[0].Seq) != "ACGT" {
		t.Errorf("seq = %q", res.Fragments[0].Seq)
	}
}

// Without split the first (discarded) attempt ends the scan.
func TestTruncateStopsAfterFirstAttempt(t *testing.T) {
	e := New(Policy{MinLength: 4, MinQuality: 20})
	res := e.Apply(rec("ACGTACGT", 25, 25, 5, 5, 25, 25, 25, 25))
	if len(res.Fragments) != 0 || res.Reason != NoFragment {
		t.Fatalf("want no fragments, got %v (%v)", spans(res), res.Reason)
	}
}

func TestSplitYieldsIndexedFragments(t *testing.T) {
	e := New(Policy{MinLength: 3, MinQuality: 20, Split: true})
	res := e.Apply(rec("ACGTACGTAC", 30, 30, 30, 5, 30, 30, 30, 5, 30, 30))
	want := []span{{0, 3, 0, 0}, {4, 7, 0, 1}}
	if got := spans(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("fragments = %v, want %v", got, want)
	}
}

func TestQualityEqualToMinimumIsKept(t *testing.T) {
	e := New(Policy{MinLength: 4, MinQuality: 20})
	res := e.Apply(rec("ACGT", flat(4, 20)...))
	if got := spans(res); !reflect.DeepEqual(got, []span{{0, 4, 0, 0}}) {
		t.Fatalf("fragments = %v", got)
	}
}

func TestTooShortRead(t *testing.T) {
	e := New(Policy{MinLength: 5, MinQuality: 0})
	if res := e.Apply(rec("ACGT", flat(4, 40)...)); res.Reason != TooShort {
		t.Fatalf("reason = %v", res.Reason)
	}
}

func TestHomopolymerTolerance(t *testing.T) {
	r := rec("ACCCG", 30, 30, 5, 5, 30)

	on := New(Policy{MinLength: 5, MinQuality: 20, Homopolymer: true}).Apply(r)
	if got := spans(on); !reflect.DeepEqual(got, []span{{0, 5, 0, 0}}) {
		t.Errorf("tolerant: %v", got)
	}
	off := New(Policy{MinLength: 5, MinQuality: 20}).Apply(r)
	if len(off.Fragments) != 0 {
		t.Errorf("intolerant: %v", spans(off))
	}
	// Case-insensitive comparison.
	mixed := New(Policy{MinLength: 5, MinQuality: 20, Homopolymer: true}).Apply(rec("ACcCG", 30, 30, 5, 5, 30))
	if len(mixed.Fragments) != 1 {
		t.Errorf("mixed case: %v", spans(mixed))
	}
}

// A tolerated N breaks a homopolymer run: the comparison is against the
// preceding scanned base, not the last accepted one.
func TestHomopolymerComparesPrecedingScannedBase(t *testing.T) {
	e := New(Policy{MinLength: 2, MinQuality: 20, Homopolymer: true, Ambiguous: true})
	res := e.Apply(rec("ACNC", 30, 30, 5, 5))
	if got := spans(res); !reflect.DeepEqual(got, []span{{0, 3, 1, 0}}) {
		t.Fatalf("fragments = %v", got)
	}
}

func TestAmbiguousBasesDoNotCountTowardLength(t *testing.T) {
	r := rec("ACNNGT", 30, 30, 5, 5, 30, 30)

	res := New(Policy{MinLength: 4, MinQuality: 20, Ambiguous: true}).Apply(r)
	if got := spans(res); !reflect.DeepEqual(got, []span{{0, 6, 2, 0}}) {
		t.Fatalf("fragments = %v", got)
	}
	if f := res.Fragments[0]; f.Len() != 6 || f.Effective() != 4 {
		t.Errorf("len=%d effective=%d", f.Len(), f.Effective())
	}

	res = New(Policy{MinLength: 5, MinQuality: 20, Ambiguous: true}).Apply(r)
	if len(res.Fragments) != 0 {
		t.Fatalf("effective length 4 < 5 must be dropped: %v", spans(res))
	}
}

func TestTagMismatchBoundary(t *testing.T) {
	e := New(Policy{MinLength: 4, MinQuality: 20, Tag: "ACGT", TagMismatch: 1})

	kept := e.Apply(rec("ACTTGGGG", flat(8, 30)...))
	if got := spans(kept); !reflect.DeepEqual(got, []span{{4, 8, 0, 0}}) {
		t.Errorf("one mismatch should be kept with tag stripped: %v", got)
	}
	dropped := e.Apply(rec("AGTTGGGG", flat(8, 30)...))
	if dropped.Reason != TagMismatch || len(dropped.Fragments) != 0 {
		t.Errorf("two mismatches should be dropped: %v", dropped.Reason)
	}
	lower := e.Apply(rec("acgtgggg", flat(8, 30)...))
	if len(lower.Fragments) != 1 {
		t.Errorf("tag match must ignore case")
	}
}

func TestTagLongerThanRead(t *testing.T) {
	e := New(Policy{MinLength: 4, MinQuality: 20, Tag: "ACGTACGTAC"})
	if res := e.Apply(rec("ACGTACG", flat(7, 30)...)); res.Reason != TagMismatch {
		t.Fatalf("reason = %v", res.Reason)
	}
}

func TestPunchRemoveCountBoundary(t *testing.T) {
	e := New(Policy{MinLength: 50, MinQuality: 20, Punch: 'N', RemoveCount: 2})

	r := rec("ACGTAC", 30, 5, 30, 5, 30, 30)
	res := e.Apply(r)
	if len(res.Fragments) != 1 || res.Punched != 2 {
		t.Fatalf("want one fragment with 2 substitutions, got %v punched=%d", spans(res), res.Punched)
	}
	if f := res.Fragments[0]; string(f.Seq) != "ANGNAC" || f.Start != 0 || f.End != 6 {
		t.Errorf("fragment = %+v", f)
	}
	if string(r.Seq) != "ACGTAC" {
		t.Errorf("record modified: %q", r.Seq)
	}

	over := e.Apply(rec("ACGTAC", 30, 5, 30, 5, 5, 30))
	if len(over.Fragments) != 0 || over.Reason != TooManyPunched {
		t.Fatalf("three substitutions must drop the read: %v %v", spans(over), over.Reason)
	}

	unlimited := New(Policy{MinLength: 1, MinQuality: 20, Punch: 'N', RemoveCount: -1})
	if res := unlimited.Apply(rec("ACGTAC", flat(6, 0)...)); string(res.Fragments[0].Seq) != "NNNNNN" {
		t.Errorf("unlimited punch = %v", spans(res))
	}
}

func TestPunchStripsTag(t *testing.T) {
	e := New(Policy{MinLength: 1, MinQuality: 20, Punch: '#', RemoveCount: -1, Tag: "ac"})
	res := e.Apply(rec("ACGTAC", 30, 30, 30, 5, 30, 30))
	if len(res.Fragments) != 1 {
		t.Fatalf("no fragment: %v", res.Reason)
	}
	if f := res.Fragments[0]; f.Start != 2 || string(f.Seq) != "G#AC" || len(f.Qual) != 4 {
		t.Errorf("fragment = %+v", f)
	}
}

func TestApplyIsRepeatable(t *testing.T) {
	for _, p := range []Policy{
		{MinLength: 2, MinQuality: 20, Split: true, Homopolymer: true, Ambiguous: true},
		{MinLength: 2, MinQuality: 20, Punch: 'N', RemoveCount: 3},
	} {
		e := New(p)
		r := rec("AANNCGTTA", 30, 5, 5, 5, 30, 30, 5, 5, 30)
		first, second := e.Apply(r), e.Apply(r)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("policy %+v: %v != %v", p, first, second)
		}
	}
}

// Every emitted fragment meets the minimum, and fragments of one read are
// ordered and disjoint, for every mode.
func TestFragmentInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const alphabet = "ACGTNacgtn"
	for i := 0; i < 400; i++ {
		n := 1 + rng.Intn(60)
		r := &seqio.Record{ID: "r", Seq: make([]byte, n), Qual: make([]int, n)}
		for j := 0; j < n; j++ {
			r.Seq[j] = alphabet[rng.Intn(len(alphabet))]
			r.Qual[j] = rng.Intn(41)
		}
		for mask := 0; mask < 8; mask++ {
			p := Policy{MinLength: 1 + rng.Intn(10), MinQuality: 20}
			if err := p.ApplyMode(mask); err != nil {
				t.Fatal(err)
			}
			res := New(p).Apply(r)
			if !p.Split && len(res.Fragments) > 1 {
				t.Fatalf("truncate mode produced %d fragments", len(res.Fragments))
			}
			prevEnd := 0
			for k, f := range res.Fragments {
				if f.Effective() < p.MinLength {
					t.Fatalf("mask %d: fragment %+v shorter than %d", mask, f, p.MinLength)
				}
				if f.Start < prevEnd || f.End > n || f.Start >= f.End {
					t.Fatalf("mask %d: bad bounds %+v (prev end %d, n %d)", mask, f, prevEnd, n)
				}
				if f.Index != k {
					t.Fatalf("mask %d: index %d at position %d", mask, f.Index, k)
				}
				prevEnd = f.End
			}
		}
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("default policy: %v", err)
	}
	bad := []Policy{
		{MinLength: 1, Punch: 'N', Split: true},
		{MinLength: 1, Punch: 'N', Homopolymer: true},
		{MinLength: 1, Punch: 'N', Ambiguous: true},
		{MinLength: 0},
		{MinLength: 1, MinQuality: -1},
		{MinLength: 1, TagMismatch: -1},
		{MinLength: 1, Format: seqio.QUAL},
	}
	for _, p := range bad {
		if err := p.Validate(); !errors.Is(err, ErrPolicy) {
			t.Errorf("%+v: want ErrPolicy, got %v", p, err)
		}
	}
}

func TestModeMask(t *testing.T) {
	var p Policy
	if err := p.ApplyMode(5); err != nil {
		t.Fatal(err)
	}
	if !p.Split || p.Homopolymer || !p.Ambiguous || p.Mode() != 5 {
		t.Fatalf("mode 5 decoded as %+v", p)
	}
	p.Homopolymer = true
	if p.Mode() != 7 {
		t.Errorf("mode = %d", p.Mode())
	}
	if err := p.ApplyMode(8); !errors.Is(err, ErrPolicy) {
		t.Errorf("mode 8: %v", err)
	}
	if got := p.ModeString(); got != "split/tolerate homopolymers/tolerate ambigs" {
		t.Errorf("ModeString = %q", got)
	}
}
