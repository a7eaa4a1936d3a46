// Package seqio parses FASTA, QUAL and FASTQ streams into Records.
//
// Each stream is driven by its own Parser, a small state machine
// (seeking -> id -> sequence -> quality -> seeking). A Reader coordinates
// one primary parser and, for FASTA+QUAL input, a second parser over the
// QUAL stream, then validates that every record has one quality score per
// base. Parsers never share position or buffers with each other.
package seqio
