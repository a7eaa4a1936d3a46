// Package writers turns retained fragments into serialized records.
//
// Design:
//   • Writers own all presentation knowledge (headers, wrapping, Phred+33).
//   • Engine stays domain-only; the pipeline stays orchestration-only.
//   • Formats self-register by seqio.Format; callers never switch on format.
package writers
