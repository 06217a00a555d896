// Package runner drives the benchmark harness: flag parsing, suite loading
// and the per-case compile/match timing loop. The engine core has no
// command-line surface of its own; everything here is tooling around it.
package runner

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
	errorutil "github.com/projectdiscovery/utils/errors"
	fileutil "github.com/projectdiscovery/utils/file"

	"github.com/regenhq/regen"
	"github.com/regenhq/regen/dfa"
)

// Options are the harness settings.
type Options struct {
	// Level is the optimization level to benchmark: -1 (table walk) to 3.
	Level int

	// Suite is an optional YAML file of benchmark cases; the built-in
	// canned cases run when empty.
	Suite string

	// Filtered opts the compiled program into the quick filter.
	Filtered bool

	// StateLimit overrides the construction budget.
	StateLimit int

	Verbose bool
	Silent  bool
}

// ParseFlags reads the harness flags.
func ParseFlags() *Options {
	opts := &Options{}
	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`Benchmark driver for the regen DFA engine.`)

	flagSet.CreateGroup("input", "Input",
		flagSet.IntVarP(&opts.Level, "optimize", "O", 2,
			"optimization level (-1 table walk, 0 compiled, 2 branch elimination, 3 inline chaining)"),
		flagSet.StringVarP(&opts.Suite, "suite", "s", "",
			"yaml file with benchmark cases (default: built-in suite)"),
		flagSet.BoolVarP(&opts.Filtered, "filtered", "f", false,
			"enable the quick filter in the compiled program"),
		flagSet.IntVarP(&opts.StateLimit, "state-limit", "sl", 0,
			"override the DFA construction state budget"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVarP(&opts.Verbose, "verbose", "v", false, "display verbose output"),
		flagSet.BoolVar(&opts.Silent, "silent", false, "display results only"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("could not read flags: %s", err)
	}

	if opts.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	} else if opts.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	return opts
}

// Case is one benchmark entry. Text is used verbatim when set; otherwise
// the input is Unit repeated Count times with Suffix appended, which keeps
// large inputs out of the suite file.
type Case struct {
	Name   string `yaml:"name"`
	Regex  string `yaml:"regex"`
	Text   string `yaml:"text"`
	Unit   string `yaml:"unit"`
	Count  int    `yaml:"count"`
	Suffix string `yaml:"suffix"`
	Want   bool   `yaml:"want"`
}

// Input synthesizes the case's haystack.
func (c *Case) Input() []byte {
	if c.Text != "" {
		return []byte(c.Text)
	}
	var sb strings.Builder
	sb.Grow(len(c.Unit)*c.Count + len(c.Suffix))
	for i := 0; i < c.Count; i++ {
		sb.WriteString(c.Unit)
	}
	sb.WriteString(c.Suffix)
	return []byte(sb.String())
}

type suiteFile struct {
	Cases []Case `yaml:"cases"`
}

// builtinSuite is the canned regex/text set the harness was born with.
func builtinSuite() []Case {
	return []Case{
		{
			Name:  "digit-groups",
			Regex: "((0123456789)_?)*",
			Unit:  strings.Repeat("0123456789", 10) + "_",
			Count: 100,
			Want:  true,
		},
		{
			Name:  "counted-as",
			Regex: "(a?){512}a{512}",
			Unit:  "a",
			Count: 1024,
			Want:  true,
		},
		{
			Name:   "dotstar-window",
			Regex:  ".*b.{8}b",
			Unit:   "a",
			Count:  1024,
			Suffix: "bbbbbbbbbb",
			Want:   true,
		},
	}
}

// Runner executes the suite.
type Runner struct {
	opts  *Options
	cases []Case
}

// New builds a Runner, loading the suite file when one was given.
func New(opts *Options) (*Runner, error) {
	cases := builtinSuite()
	if opts.Suite != "" {
		if !fileutil.FileExists(opts.Suite) {
			return nil, errorutil.New("suite file %s does not exist", opts.Suite)
		}
		data, err := os.ReadFile(opts.Suite)
		if err != nil {
			return nil, errorutil.NewWithErr(err).Msgf("could not read suite %s", opts.Suite)
		}
		var sf suiteFile
		if err := yaml.Unmarshal(data, &sf); err != nil {
			return nil, errorutil.NewWithErr(err).Msgf("could not parse suite %s", opts.Suite)
		}
		if len(sf.Cases) == 0 {
			return nil, errorutil.New("suite %s contains no cases", opts.Suite)
		}
		cases = sf.Cases
	}
	if opts.Level < int(regen.Onone) || opts.Level > int(regen.O3) {
		return nil, errorutil.New("invalid optimization level %d", opts.Level)
	}
	return &Runner{opts: opts, cases: cases}, nil
}

// Run compiles and matches every case, logging per-case timings. Returns an
// error when any case's verdict differs from its expectation.
func (r *Runner) Run() error {
	level := dfa.OptLevel(r.opts.Level)
	failed := 0
	for i := range r.cases {
		c := &r.cases[i]
		input := c.Input()

		ropts := regen.DefaultOptions()
		ropts.Flags.FilteredMatch = r.opts.Filtered
		if r.opts.StateLimit > 0 {
			ropts.Flags.StateLimit = r.opts.StateLimit
		}
		ropts.Verbose = r.opts.Verbose

		start := time.Now()
		re, err := regen.Compile(c.Regex, ropts)
		if err != nil {
			return errorutil.NewWithErr(err).Msgf("case %s failed to compile", c.label(i))
		}
		if level >= regen.O0 {
			re.CompileDFA(level)
		}
		compileTime := time.Since(start)

		start = time.Now()
		got := re.FullMatch(input)
		matchTime := time.Since(start)

		status := "ok"
		if got != c.Want {
			status = "FAIL"
			failed++
		}
		gologger.Info().Msgf("%-16s O%-2d states=%-5d compile=%-12s match=%-12s [%s]",
			c.label(i), r.opts.Level, re.DFASize(), compileTime, matchTime, status)
		gologger.Verbose().Msgf("  regex=/%s/ input=%d bytes complete=%v",
			c.Regex, len(input), re.Complete())
		_ = re.Close()
	}
	if failed > 0 {
		return errorutil.New("%d of %d cases failed", failed, len(r.cases))
	}
	return nil
}

func (c *Case) label(i int) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("case-%d", i)
}
