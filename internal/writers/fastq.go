package writers

import (
	"bufio"
	"io"

	"qfilt/internal/engine"
	"qfilt/internal/seqio"
)

func init() {
	Register(seqio.FASTQ, func(w io.Writer, _ int) FragmentWriter {
		return &fastqWriter{w: bufio.NewWriter(w)}
	})
}

// maxPhred is the highest score with a printable Phred+33 character ('~').
const maxPhred = 93

// fastqWriter emits four-line records; FASTQ lines are never wrapped.
type fastqWriter struct {
	w *bufio.Writer
}

func (fw *fastqWriter) Write(id string, f engine.Fragment) error {
	fw.w.WriteByte('@')
	fw.w.WriteString(header(id, f.Index))
	fw.w.WriteByte('\n')
	fw.w.Write(f.Seq)
	fw.w.WriteString("\n+\n")
	for _, q := range f.Qual {
		if q > maxPhred {
			q = maxPhred
		}
		fw.w.WriteByte(byte(q + 33))
	}
	return fw.w.WriteByte('\n')
}

func (fw *fastqWriter) Flush() error { return fw.w.Flush() }
