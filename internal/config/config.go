// Package config loads the optional YAML policy file. Every key mirrors a
// long command-line flag; flags given explicitly on the command line win.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"qfilt/internal/engine"
	"qfilt/internal/seqio"
)

// File is the decoded policy file. Nil fields were not present.
type File struct {
	MinLength   *int    `yaml:"min-length"`
	MinQScore   *int    `yaml:"min-qscore"`
	Mode        *int    `yaml:"mode"`
	Split       *bool   `yaml:"split"`
	Homopolymer *bool   `yaml:"homopolymer"`
	Ambiguous   *bool   `yaml:"ambiguous"`
	Punch       *string `yaml:"punch"`
	RemoveCount *int    `yaml:"remove-count"`
	Tag         *string `yaml:"tag"`
	TagMismatch *int    `yaml:"tag-mismatch"`
	Format      *string `yaml:"format"`
}

// Load reads and decodes path. Unknown keys are an error.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer fh.Close()
	f, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}

// Decode parses a policy document. An empty document yields an empty File.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &f, nil
}

// Apply copies the values present in f onto p, skipping every key for which
// explicit reports true (set on the command line).
func (f *File) Apply(p *engine.Policy, explicit func(key string) bool) error {
	skip := func(key string) bool { return explicit != nil && explicit(key) }

	if f.MinLength != nil && !skip("min-length") {
		p.MinLength = *f.MinLength
	}
	if f.MinQScore != nil && !skip("min-qscore") {
		p.MinQuality = *f.MinQScore
	}
	if f.Split != nil && !skip("split") {
		p.Split = *f.Split
	}
	if f.Homopolymer != nil && !skip("homopolymer") {
		p.Homopolymer = *f.Homopolymer
	}
	if f.Ambiguous != nil && !skip("ambiguous") {
		p.Ambiguous = *f.Ambiguous
	}
	if f.Mode != nil && !skip("mode") {
		if err := p.ApplyMode(*f.Mode); err != nil {
			return err
		}
	}
	if f.Punch != nil && !skip("punch") {
		if len(*f.Punch) != 1 {
			return fmt.Errorf("punch must be a single character, got %q", *f.Punch)
		}
		p.Punch = (*f.Punch)[0]
	}
	if f.RemoveCount != nil && !skip("remove-count") {
		p.RemoveCount = *f.RemoveCount
	}
	if f.Tag != nil && !skip("tag") {
		p.Tag = *f.Tag
	}
	if f.TagMismatch != nil && !skip("tag-mismatch") {
		p.TagMismatch = *f.TagMismatch
	}
	if f.Format != nil && !skip("format") {
		fm, err := seqio.ParseFormat(*f.Format)
		if err != nil {
			return err
		}
		p.Format = fm
	}
	return nil
}
