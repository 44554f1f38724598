// fbi - fast bytecode interpreter for the eight-symbol tape language
//
// Each file named on the command line is compiled and then executed in
// order. A failing file is reported and skipped; the exit status is the
// number of files that failed.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/kolkov/fbi"
)

// version is set at build time via -ldflags.
// For development builds, it will be "dev".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	shortUsage = "usage: fbi [-config file] [-tape mode] [-order n] [-cell bits] [-eof mode] [-d] [-strip] [-o image] file ..."
	longUsage  = `Execution arguments:
  -config file      read tape and input settings from a TOML file
  -tape mode        tape addressing: growable (default), fixed
  -order n          log2 of the tape size (default 18)
  -cell bits        cell storage width: 8 (default), 16, 32
  -growth policy    growable tape policy: per-direction (default), symmetric
  -max-cells n      growable tape cell limit (default 1073741824)
  -eof mode         value stored at end of input: zero (default), unchanged, all-ones

Output arguments:
  -o image          write the compiled bytecode image to image and exit
  -strip            print each program reduced to its significant symbols
  -d                print bytecode assembly to stderr instead of running

Other:
  -v                increase log verbosity (repeatable)
  -h, --help        show this help message
  -version          show fbi version and exit

Files holding a bytecode image (see -o) run without recompiling.
`
)

var log = commonlog.GetLogger("fbi")

// options holds the parsed command line.
type options struct {
	config    fbi.Config
	overrides []func(*fbi.Config)
	cfgFile   string
	disasm    bool
	strip     bool
	imageOut  string
	verbosity int
	files     []string
}

func main() {
	opts := parseArgs(os.Args[1:])
	commonlog.Configure(opts.verbosity, nil)

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	os.Exit(run(opts, bufio.NewReader(os.Stdin), stdout, os.Stderr))
}

//nolint:gocyclo,funlen // CLI argument parsing is inherently complex
func parseArgs(args []string) *options {
	opts := &options{verbosity: -1}

	// needArg returns the value of a flag that takes an argument, either
	// attached (-order12) or as the next word.
	var i int
	needArg := func(flag, arg string) string {
		if len(arg) > len(flag) {
			return arg[len(flag):]
		}
		if i+1 >= len(args) {
			errorExitf("flag needs an argument: %s", flag)
		}
		i++
		return args[i]
	}
	override := func(f func(*fbi.Config)) {
		opts.overrides = append(opts.overrides, f)
	}

	for i = 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			i++
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			break
		}

		switch {
		case arg == "-h" || arg == "--help":
			fmt.Printf("fbi %s - fast bytecode interpreter\n\n%s\n\n%s", version, shortUsage, longUsage)
			os.Exit(0)
		case arg == "-version" || arg == "--version":
			fmt.Printf("fbi version %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
			os.Exit(0)
		case arg == "-d":
			opts.disasm = true
		case arg == "-strip":
			opts.strip = true
		case strings.HasPrefix(arg, "-v") && strings.Trim(arg[1:], "v") == "":
			opts.verbosity += len(arg) - 1
		case strings.HasPrefix(arg, "-config"):
			opts.cfgFile = needArg("-config", arg)
		case strings.HasPrefix(arg, "-tape"):
			mode, err := fbi.ParseTapeMode(needArg("-tape", arg))
			if err != nil {
				errorExit(err)
			}
			override(func(c *fbi.Config) { c.Tape = mode })
		case strings.HasPrefix(arg, "-order"):
			n := atoi("-order", needArg("-order", arg))
			override(func(c *fbi.Config) { c.TapeOrder = n })
		case strings.HasPrefix(arg, "-cell"):
			n := atoi("-cell", needArg("-cell", arg))
			override(func(c *fbi.Config) { c.CellWidth = n })
		case strings.HasPrefix(arg, "-growth"):
			g, err := fbi.ParseGrowth(needArg("-growth", arg))
			if err != nil {
				errorExit(err)
			}
			override(func(c *fbi.Config) { c.Growth = g })
		case strings.HasPrefix(arg, "-max-cells"):
			n := atoi("-max-cells", needArg("-max-cells", arg))
			override(func(c *fbi.Config) { c.MaxCells = n })
		case strings.HasPrefix(arg, "-eof"):
			mode, err := fbi.ParseEOFMode(needArg("-eof", arg))
			if err != nil {
				errorExit(err)
			}
			override(func(c *fbi.Config) { c.EOF = mode })
		case strings.HasPrefix(arg, "-o"):
			opts.imageOut = needArg("-o", arg)
		default:
			errorExitf("flag provided but not defined: %s", arg)
		}
	}

	opts.files = args[i:]
	if len(opts.files) == 0 {
		errorExitf(shortUsage)
	}
	if opts.imageOut != "" && len(opts.files) != 1 {
		errorExitf("-o needs exactly one input file, got %d", len(opts.files))
	}

	if opts.cfgFile != "" {
		cfg, err := fbi.LoadConfig(opts.cfgFile)
		if err != nil {
			errorExit(err)
		}
		opts.config = *cfg
	}
	// Flags win over the config file regardless of their order.
	for _, f := range opts.overrides {
		f(&opts.config)
	}
	return opts
}

// run processes every file and returns the number that failed.
func run(opts *options, stdin io.Reader, stdout *bufio.Writer, stderr io.Writer) int {
	config := opts.config
	config.Output = stdout

	failures := 0
	for _, path := range opts.files {
		if !runFile(path, opts, &config, stdin, stdout, stderr) {
			failures++
		}
		if err := stdout.Flush(); err != nil {
			fmt.Fprintf(stderr, "fbi: %v\n", err)
		}
	}
	if failures > 0 {
		log.Noticef("%d of %d files failed", failures, len(opts.files))
	}
	return failures
}

func runFile(path string, opts *options, config *fbi.Config, stdin io.Reader, stdout io.Writer, stderr io.Writer) bool {
	start := time.Now()
	prog, err := fbi.CompileFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "%s: Error while loading\n", path)
		fmt.Fprintf(stderr, "fbi: %v\n", err)
		return false
	}
	log.Infof("%s: compiled %d instructions in %s", path, prog.Len(), time.Since(start))

	switch {
	case opts.imageOut != "":
		data, err := prog.MarshalBinary()
		if err == nil {
			err = os.WriteFile(opts.imageOut, data, 0o644)
		}
		if err != nil {
			fmt.Fprintf(stderr, "fbi: %v\n", err)
			return false
		}
		log.Infof("%s: wrote %d byte image to %s", path, len(data), opts.imageOut)
		return true
	case opts.disasm:
		fmt.Fprint(stderr, prog.Disassemble())
		return true
	case opts.strip:
		fmt.Fprintln(stdout, prog.Stripped())
		return true
	}

	start = time.Now()
	if _, err := prog.Run(stdin, config); err != nil {
		fmt.Fprintf(stderr, "fbi: %s: %v\n", path, err)
		return false
	}
	log.Debugf("%s: ran in %s", path, time.Since(start))
	return true
}

func atoi(flag, s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		errorExitf("invalid value for %s: %s", flag, s)
	}
	return n
}

// errorExitf prints formatted error message and exits with code 1
func errorExitf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "fbi: "+format+"\n", args...)
	os.Exit(1)
}

// errorExit prints error and exits with code 1
func errorExit(err error) {
	fmt.Fprintf(os.Stderr, "fbi: %v\n", err)
	os.Exit(1)
}
