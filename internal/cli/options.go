// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"qfilt/internal/config"
	"qfilt/internal/engine"
	"qfilt/internal/seqio"
	"qfilt/internal/version"
)

// Environment fallbacks for flags that are usually set once per host.
const (
	EnvConfig    = "QFILT_CONFIG"
	EnvLogLevel  = "QFILT_LOG_LEVEL"
	EnvLogFormat = "QFILT_LOG_FORMAT"
)

// Options holds all CLI flags.
type Options struct {
	// Input
	FASTA string
	Qual  string
	FASTQ string

	// Output
	Output      string
	Format      string
	JSON        bool
	Report      string
	MetricsFile string

	// Policy
	MinQScore   int
	MinLength   int
	Mode        int
	Split       bool
	Homopolymer bool
	Ambiguous   bool
	Punch       string
	RemoveCount int
	Tag         string
	TagMismatch int

	// Ambient
	Config    string
	LogLevel  string
	LogFormat string
	Quiet     bool

	Version bool

	// explicit holds the long names of flags given on the command line.
	explicit map[string]bool
}

// Explicit reports whether the flag with long name key was given on the
// command line (under either spelling).
func (o Options) Explicit(key string) bool { return o.explicit[key] }

// aliases maps short spellings to long flag names.
var aliases = map[string]string{
	"F": "fasta", "Q": "fastq", "o": "output",
	"q": "min-qscore", "l": "min-length", "m": "mode",
	"s": "split", "p": "homopolymer", "a": "ambiguous",
	"P": "punch", "R": "remove-count", "T": "tag", "t": "tag-mismatch",
	"f": "format", "j": "json", "c": "config", "v": "version",
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: quality filtering of FASTA+QUAL and FASTQ reads

Version: %s

Usage:
  %s --fasta FILE --qual FILE [options]
  %s --fastq FILE [options]

Short aliases: -F fasta, -Q fastq, -o output, -q min-qscore, -l min-length,
-m mode, -s split, -p homopolymer, -a ambiguous, -P punch, -R remove-count,
-T tag, -t tag-mismatch, -f format, -j json, -c config, -v version.

Options:
`, name, version.Version, name, name)
		fs.VisitAll(func(f *flag.Flag) {
			if _, short := aliases[f.Name]; short || f.Name == "h" {
				return
			}
			fmt.Fprintf(fs.Output(), "  --%s\n    \t%s\n", f.Name, f.Usage)
		})
	}
	return fs
}

func stringVar(fs *flag.FlagSet, p *string, long, short, def, usage string) {
	fs.StringVar(p, long, def, usage)
	if short != "" {
		fs.StringVar(p, short, def, usage)
	}
}

func intVar(fs *flag.FlagSet, p *int, long, short string, def int, usage string) {
	fs.IntVar(p, long, def, usage)
	if short != "" {
		fs.IntVar(p, short, def, usage)
	}
}

func boolVar(fs *flag.FlagSet, p *bool, long, short string, def bool, usage string) {
	fs.BoolVar(p, long, def, usage)
	if short != "" {
		fs.BoolVar(p, short, def, usage)
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	// Input
	stringVar(fs, &opt.FASTA, "fasta", "F", "", "FASTA input file ('-' = stdin) [*]")
	stringVar(fs, &opt.Qual, "qual", "", "", "QUAL input file paired with --fasta [*]")
	stringVar(fs, &opt.FASTQ, "fastq", "Q", "", "FASTQ input file ('-' = stdin) [*]")

	// Output
	stringVar(fs, &opt.Output, "output", "o", "-", "fragment output file ('-' = stdout) [-]")
	stringVar(fs, &opt.Format, "format", "f", "FASTA", "output format: FASTA | FASTQ [FASTA]")
	boolVar(fs, &opt.JSON, "json", "j", false, "write the run report as JSON [false]")
	stringVar(fs, &opt.Report, "report", "", "", "run report file [stderr]")
	stringVar(fs, &opt.MetricsFile, "metrics-file", "", "", "write Prometheus metrics to this textfile []")

	// Policy
	intVar(fs, &opt.MinQScore, "min-qscore", "q", engine.DefaultMinQuality, "minimum per-base quality [20]")
	intVar(fs, &opt.MinLength, "min-length", "l", engine.DefaultMinLength, "minimum retained fragment length [50]")
	intVar(fs, &opt.Mode, "mode", "m", 0, "mode mask 0-7: 1=split, 2=tolerate homopolymers, 4=tolerate ambiguous [0]")
	boolVar(fs, &opt.Split, "split", "s", false, "split reads at low-quality bases instead of truncating [false]")
	boolVar(fs, &opt.Homopolymer, "homopolymer", "p", false, "tolerate low-quality homopolymer bases [false]")
	boolVar(fs, &opt.Ambiguous, "ambiguous", "a", false, "tolerate low-quality N bases [false]")
	stringVar(fs, &opt.Punch, "punch", "P", "", "replace low-quality bases with this character []")
	intVar(fs, &opt.RemoveCount, "remove-count", "R", -1, "drop punched reads with more than COUNT substitutions (-1 = unlimited) [-1]")
	stringVar(fs, &opt.Tag, "tag", "T", "", "required 5' tag, stripped from retained reads []")
	intVar(fs, &opt.TagMismatch, "tag-mismatch", "t", 0, "tolerated tag mismatches [0]")

	// Ambient
	stringVar(fs, &opt.Config, "config", "c", getEnv(EnvConfig, ""), "YAML policy file [$"+EnvConfig+"]")
	stringVar(fs, &opt.LogLevel, "log-level", "", getEnv(EnvLogLevel, "warn"), "log level: debug | info | warn | error [$"+EnvLogLevel+" or warn]")
	stringVar(fs, &opt.LogFormat, "log-format", "", getEnv(EnvLogFormat, "text"), "log format: text | json [$"+EnvLogFormat+" or text]")
	boolVar(fs, &opt.Quiet, "quiet", "", false, "only log errors [false]")

	boolVar(fs, &opt.Version, "version", "v", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	if fs.NArg() > 0 {
		return opt, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	opt.explicit = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if long, ok := aliases[name]; ok {
			name = long
		}
		opt.explicit[name] = true
	})

	// Validation
	paired := opt.FASTA != "" || opt.Qual != ""
	switch {
	case paired && opt.FASTQ != "":
		return opt, errors.New("--fastq conflicts with --fasta/--qual")
	case paired && (opt.FASTA == "" || opt.Qual == ""):
		return opt, errors.New("--fasta and --qual must be supplied together")
	case !paired && opt.FASTQ == "":
		return opt, errors.New("provide --fastq or --fasta/--qual")
	case opt.FASTA == "-" && opt.Qual == "-":
		return opt, errors.New("--fasta and --qual cannot both read stdin")
	}
	if opt.Punch != "" && len(opt.Punch) != 1 {
		return opt, fmt.Errorf("--punch must be a single character, got %q", opt.Punch)
	}
	if opt.Output == "" {
		return opt, errors.New("--output must not be empty")
	}
	return opt, nil
}

// Policy builds the effective policy: flag values, then the mode mask, then
// cfg values for keys not given on the command line. The result is validated.
func (o Options) Policy(cfg *config.File) (engine.Policy, error) {
	p := engine.DefaultPolicy()
	p.MinQuality = o.MinQScore
	p.MinLength = o.MinLength
	p.Split = o.Split
	p.Homopolymer = o.Homopolymer
	p.Ambiguous = o.Ambiguous
	p.RemoveCount = o.RemoveCount
	p.Tag = o.Tag
	p.TagMismatch = o.TagMismatch
	if o.Punch != "" {
		p.Punch = o.Punch[0]
	}
	f, err := seqio.ParseFormat(o.Format)
	if err != nil {
		return p, err
	}
	p.Format = f
	if err := p.ApplyMode(o.Mode); err != nil {
		return p, err
	}
	if cfg != nil {
		if err := cfg.Apply(&p, o.Explicit); err != nil {
			return p, err
		}
	}
	if !p.Punching() && p.RemoveCount >= 0 {
		return p, fmt.Errorf("%w: --remove-count requires --punch", engine.ErrPolicy)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
