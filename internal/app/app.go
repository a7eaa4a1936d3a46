// internal/app/app.go
package app

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"

	"qfilt/internal/appcore"
	"qfilt/internal/cli"
	"qfilt/internal/cmdutil"
	"qfilt/internal/config"
	"qfilt/internal/version"
	"qfilt/internal/writers"
)

// Run parses argv, resolves the policy and runs the filter.
func Run(argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	flushed := func(code int) int {
		if e := outw.Flush(); writers.IsBrokenPipe(e) {
			return 0
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return appcore.ExitIO
		}
		return code
	}

	fs := cli.NewFlagSet("qfilt")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		fs.SetOutput(outw)
		if errors.Is(err, flag.ErrHelp) {
			fs.Usage()
			return flushed(0)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.Usage()
		return flushed(appcore.ExitUsage)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "qfilt version %s\n", version.Version)
		return flushed(0)
	}

	var cfg *config.File
	if opts.Config != "" {
		if cfg, err = config.Load(opts.Config); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return appcore.ExitUsage
		}
	}
	policy, err := opts.Policy(cfg)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitUsage
	}

	level := opts.LogLevel
	if opts.Quiet {
		level = "error"
	}
	logger, err := cmdutil.NewLogger(stderr, level, opts.LogFormat)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitUsage
	}

	code := appcore.Run(outw, stderr, appcore.Options{
		FASTA:       opts.FASTA,
		Qual:        opts.Qual,
		FASTQ:       opts.FASTQ,
		Output:      opts.Output,
		Report:      opts.Report,
		JSON:        opts.JSON,
		MetricsFile: opts.MetricsFile,
		Policy:      policy,
		Logger:      logger,
	})
	if code != appcore.ExitOK {
		_ = outw.Flush()
		return code
	}
	return flushed(code)
}
