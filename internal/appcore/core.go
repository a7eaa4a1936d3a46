// internal/appcore/core.go
package appcore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shenwei356/xopen"

	"qfilt/internal/engine"
	"qfilt/internal/metrics"
	"qfilt/internal/output"
	"qfilt/internal/pipeline"
	"qfilt/internal/seqio"
	"qfilt/internal/source"
	"qfilt/internal/stats"
	"qfilt/internal/version"
	"qfilt/internal/writers"
	"qfilt/pkg/api"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitMalformed = 1
	ExitUsage     = 2
	ExitIO        = 3
)

// Options is everything a run needs once flags and config are resolved.
type Options struct {
	FASTA string
	Qual  string
	FASTQ string

	Output      string // "-" = stdout
	Report      string // "" = stderr
	JSON        bool
	MetricsFile string

	Policy engine.Policy
	Logger *slog.Logger
}

// Run filters the input and writes fragments, the run report and metrics.
// It returns the process exit code.
func Run(stdout, stderr io.Writer, o Options) int {
	log := o.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := o.Policy.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}

	rd, closeIn, err := openReader(o)
	if err != nil {
		log.Error("open input", "error", err)
		fmt.Fprintln(stderr, err)
		return ExitIO
	}
	defer closeIn()

	out, closeOut, err := openWriter(stdout, o.Output)
	if err != nil {
		log.Error("open output", "path", o.Output, "error", err)
		fmt.Fprintln(stderr, err)
		return ExitIO
	}
	fw, err := writers.New(o.Policy.Format, out, writers.DefaultColumns)
	if err != nil {
		_ = closeOut()
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}

	runID := uuid.NewString()
	log.Info("run started",
		"run_id", runID,
		"fasta", o.FASTA, "qual", o.Qual, "fastq", o.FASTQ,
		"min_qscore", o.Policy.MinQuality,
		"min_length", o.Policy.MinLength,
		"mode", o.Policy.Mode(),
		"punch", o.Policy.Punching(),
		"format", o.Policy.Format.String(),
	)

	agg := stats.NewAggregator()
	var rec *metrics.Recorder
	if o.MetricsFile != "" {
		rec = metrics.New()
	}

	counts, runErr := pipeline.ForEachRecord(rd, engine.New(o.Policy), func(r *seqio.Record, res engine.Result) error {
		agg.AddRead(r)
		agg.AddResult(res)
		if rec != nil {
			rec.ObserveRead(r)
			rec.ObserveResult(res)
		}
		if !res.Contributing() {
			log.Debug("read discarded", "id", r.ID, "reason", res.Reason.String())
			return nil
		}
		for _, f := range res.Fragments {
			if err := fw.Write(r.ID, f); err != nil {
				return err
			}
		}
		return nil
	})
	if err := fw.Flush(); runErr == nil {
		runErr = err
	}
	if err := closeOut(); runErr == nil {
		runErr = err
	}

	if runErr != nil {
		if writers.IsBrokenPipe(runErr) {
			return ExitOK
		}
		var perr *source.ParseError
		if errors.As(runErr, &perr) {
			log.Error("parse failed", "position", perr.Pos.String(), "error", perr.Err)
			fmt.Fprintln(stderr, runErr)
			return ExitMalformed
		}
		log.Error("run failed", "error", runErr)
		fmt.Fprintln(stderr, runErr)
		return ExitIO
	}

	rep := output.BuildReport(output.RunInfo{
		RunID:   runID,
		Version: version.Version,
		FASTA:   o.FASTA,
		Qual:    o.Qual,
		FASTQ:   o.FASTQ,
		Policy:  o.Policy,
	}, agg)
	if err := writeReport(stderr, o.Report, o.JSON, rep); err != nil && !writers.IsBrokenPipe(err) {
		fmt.Fprintln(stderr, err)
		return ExitIO
	}
	if rec != nil {
		if err := rec.WriteTextfile(o.MetricsFile); err != nil {
			fmt.Fprintln(stderr, err)
			return ExitIO
		}
	}

	log.Info("run finished",
		"run_id", runID,
		"reads", counts.Reads,
		"contributing", counts.Contributing,
		"fragments", counts.Fragments,
	)
	return ExitOK
}

func openReader(o Options) (*seqio.Reader, func(), error) {
	if o.FASTQ != "" {
		fq, err := source.Open(o.FASTQ)
		if err != nil {
			return nil, nil, err
		}
		return seqio.NewFASTQReader(fq.Source), func() { _ = fq.Close() }, nil
	}
	fa, err := source.Open(o.FASTA)
	if err != nil {
		return nil, nil, err
	}
	qu, err := source.Open(o.Qual)
	if err != nil {
		_ = fa.Close()
		return nil, nil, err
	}
	closeAll := func() {
		_ = fa.Close()
		_ = qu.Close()
	}
	return seqio.NewPairReader(fa.Source, qu.Source), closeAll, nil
}

// openWriter returns stdout for "-" and an xopen writer otherwise.
func openWriter(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	w, err := xopen.Wopen(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return w, w.Close, nil
}

func writeReport(stderr io.Writer, path string, asJSON bool, rep api.ReportV1) error {
	dst, closeFn, err := openWriter(stderr, reportPath(path))
	if err != nil {
		return err
	}
	if asJSON {
		err = output.WriteJSON(dst, rep)
	} else {
		err = output.WriteText(dst, rep)
	}
	if cerr := closeFn(); err == nil {
		err = cerr
	}
	return err
}

// reportPath maps the empty path (stderr) onto openWriter's "-".
func reportPath(p string) string {
	if p == "" {
		return "-"
	}
	return p
}
