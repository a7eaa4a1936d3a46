// internal/engine/policy.go
package engine

import (
	"errors"
	"fmt"

	"qfilt/internal/seqio"
)

// ErrPolicy marks an invalid policy combination. It is reported before any
// record is read.
var ErrPolicy = errors.New("invalid policy")

// Mode bits, as accepted by the -m flag.
const (
	ModeSplit       = 1 << iota // split instead of truncate
	ModeHomopolymer             // tolerate low-quality homopolymers
	ModeAmbiguous               // tolerate low-quality N
)

// Defaults mirror the command-line defaults.
const (
	DefaultMinLength  = 50
	DefaultMinQuality = 20
)

// Policy configures the engine.
type Policy struct {
	MinLength  int // minimum retained fragment length
	MinQuality int // bases scoring below this are low quality

	Split       bool
	Homopolymer bool
	Ambiguous   bool

	// Punch replaces low-quality bases with this byte instead of trimming.
	// Zero disables punching. RemoveCount is the largest number of
	// substitutions a read may take; negative means no limit.
	Punch       byte
	RemoveCount int

	// Tag is a required 5' prefix, matched case-insensitively with at most
	// TagMismatch mismatches and stripped from retained reads.
	Tag         string
	TagMismatch int

	Format seqio.Format // output format
}

// DefaultPolicy returns the policy used when no flags are given.
func DefaultPolicy() Policy {
	return Policy{
		MinLength:   DefaultMinLength,
		MinQuality:  DefaultMinQuality,
		RemoveCount: -1,
		Format:      seqio.FASTA,
	}
}

// Punching reports whether punch mode is on.
func (p Policy) Punching() bool { return p.Punch != 0 }

// Mode returns the 3-bit split/homopolymer/ambiguous mask.
func (p Policy) Mode() int {
	m := 0
	if p.Split {
		m |= ModeSplit
	}
	if p.Homopolymer {
		m |= ModeHomopolymer
	}
	if p.Ambiguous {
		m |= ModeAmbiguous
	}
	return m
}

// ApplyMode turns on the behaviours set in mask. Bits already enabled stay
// enabled.
func (p *Policy) ApplyMode(mask int) error {
	if mask < 0 || mask > 7 {
		return fmt.Errorf("%w: mode must be an integer in [0, 7], had: %d", ErrPolicy, mask)
	}
	p.Split = p.Split || mask&ModeSplit != 0
	p.Homopolymer = p.Homopolymer || mask&ModeHomopolymer != 0
	p.Ambiguous = p.Ambiguous || mask&ModeAmbiguous != 0
	return nil
}

// ModeString describes the split/homopolymer/ambiguous settings.
func (p Policy) ModeString() string {
	s := "truncate"
	if p.Split {
		s = "split"
	}
	if p.Homopolymer {
		s += "/tolerate homopolymers"
	} else {
		s += "/don't tolerate homopolymers"
	}
	if p.Ambiguous {
		s += "/tolerate ambigs"
	} else {
		s += "/don't tolerate ambigs"
	}
	return s
}

// Validate rejects policies the engine cannot run.
func (p Policy) Validate() error {
	switch {
	case p.Punching() && (p.Split || p.Homopolymer || p.Ambiguous):
		return fmt.Errorf("%w: punch character is incompatible with split, homopolymer and ambiguous modes", ErrPolicy)
	case p.MinLength < 1:
		return fmt.Errorf("%w: minimum length expected a positive integer, had: %d", ErrPolicy, p.MinLength)
	case p.MinQuality < 0:
		return fmt.Errorf("%w: min q-score expected a non-negative integer, had: %d", ErrPolicy, p.MinQuality)
	case p.TagMismatch < 0:
		return fmt.Errorf("%w: maximum tag mismatch expected a non-negative integer, had: %d", ErrPolicy, p.TagMismatch)
	case p.Format != seqio.FASTA && p.Format != seqio.FASTQ:
		return fmt.Errorf("%w: output format must be FASTA or FASTQ, had: %s", ErrPolicy, p.Format)
	}
	return nil
}
