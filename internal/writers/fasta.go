package writers

import (
	"bufio"
	"io"

	"qfilt/internal/engine"
	"qfilt/internal/seqio"
)

func init() {
	Register(seqio.FASTA, func(w io.Writer, cols int) FragmentWriter {
		return &fastaWriter{w: bufio.NewWriter(w), cols: cols}
	})
}

type fastaWriter struct {
	w    *bufio.Writer
	cols int
}

// Write emits ">id[ fragment=N]" and the sequence wrapped at cols.
func (fw *fastaWriter) Write(id string, f engine.Fragment) error {
	fw.w.WriteByte('>')
	fw.w.WriteString(header(id, f.Index))
	fw.w.WriteByte('\n')
	seq := f.Seq
	if fw.cols <= 0 {
		fw.w.Write(seq)
		return fw.w.WriteByte('\n')
	}
	for len(seq) > 0 {
		n := fw.cols
		if n > len(seq) {
			n = len(seq)
		}
		fw.w.Write(seq[:n])
		if err := fw.w.WriteByte('\n'); err != nil {
			return err
		}
		seq = seq[n:]
	}
	return nil
}

func (fw *fastaWriter) Flush() error { return fw.w.Flush() }
