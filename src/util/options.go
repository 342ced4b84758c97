// options.go holds the generator's tunable knobs, grounded on the
// Options struct and ParseArgs in vslc/src/util/args.go: a plain struct
// with sensible defaults, populated by hand-rolled os.Args parsing
// without a third-party flag library, matching this codebase's ambient
// stack throughout.
package util

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// GeneratorOptions are the external interface knobs spec.md §6 names:
// the load-name affixes and the default numeric types for literals.
// DefaultReal is the type of a real literal with no contextual REAL/LREAL
// target. An integer literal with no numeric target takes DINT, or LINT
// when its value does not fit DINT; DefaultInteger is only the type given
// to an integer literal that fails to parse or overflows LINT.
type GeneratorOptions struct {
	LoadPrefix     string
	LoadSuffix     string
	DefaultInteger string
	DefaultReal    string

	// Src collects the positional file arguments (cmd/stlcg does not read
	// them; it generates its built-in demo POUs), Out is the output path,
	// Verbose enables the textual-IR dump cmd/stlcg can print, and Threads
	// caps how many POUs cmd/stlcg generates at once.
	Src     []string
	Out     string
	Verbose bool
	Threads int
}

// DefaultGeneratorOptions returns the defaults spec.md §6 specifies:
// load_prefix "load_", load_suffix "", default_integer DINT, default_real
// REAL.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		LoadPrefix:     "load_",
		LoadSuffix:     "",
		DefaultInteger: "DINT",
		DefaultReal:    "REAL",
		Out:            "a.out.ll",
		Threads:        1,
	}
}

// ParseArgs parses os.Args-style arguments into a GeneratorOptions,
// grounded on ParseArgs in vslc/src/util/args.go: a manual switch over
// recognised flags, no third-party CLI library.
func ParseArgs(args []string) (GeneratorOptions, error) {
	opt := DefaultGeneratorOptions()
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-o" || arg == "--out":
			i++
			if i >= len(args) {
				return opt, fmt.Errorf("%s requires an argument", arg)
			}
			opt.Out = args[i]
		case arg == "-v" || arg == "--verbose":
			opt.Verbose = true
		case arg == "--load-prefix":
			i++
			if i >= len(args) {
				return opt, fmt.Errorf("%s requires an argument", arg)
			}
			opt.LoadPrefix = args[i]
		case arg == "--load-suffix":
			i++
			if i >= len(args) {
				return opt, fmt.Errorf("%s requires an argument", arg)
			}
			opt.LoadSuffix = args[i]
		case arg == "--default-integer":
			i++
			if i >= len(args) {
				return opt, fmt.Errorf("%s requires an argument", arg)
			}
			opt.DefaultInteger = args[i]
		case arg == "--default-real":
			i++
			if i >= len(args) {
				return opt, fmt.Errorf("%s requires an argument", arg)
			}
			opt.DefaultReal = args[i]
		case arg == "-j" || arg == "--threads":
			i++
			if i >= len(args) {
				return opt, fmt.Errorf("%s requires an argument", arg)
			}
			n := 0
			if _, err := fmt.Sscanf(args[i], "%d", &n); err != nil || n < 1 {
				return opt, fmt.Errorf("invalid thread count %q", args[i])
			}
			opt.Threads = n
		case arg == "-h" || arg == "--help":
			PrintHelp()
			os.Exit(0)
		case strings.HasPrefix(arg, "-"):
			return opt, fmt.Errorf("unrecognised flag %q", arg)
		default:
			opt.Src = append(opt.Src, arg)
		}
	}
	if len(opt.Src) == 0 {
		return opt, fmt.Errorf("no source files given")
	}
	return opt, nil
}

// PrintHelp prints usage information, grounded on printHelp in
// vslc/src/util/args.go.
func PrintHelp() {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "usage: stlcg [options] file...")
	fmt.Fprintln(w, "-o, --out <file>\twrite generated IR to <file> (default a.out.ll)")
	fmt.Fprintln(w, "-v, --verbose\talso print generated IR to stdout once generation completes")
	fmt.Fprintln(w, "-j, --threads <n>\tnumber of POUs to generate concurrently")
	fmt.Fprintln(w, "--load-prefix <s>\tprefix applied to load instruction names (default load_)")
	fmt.Fprintln(w, "--load-suffix <s>\tsuffix applied to load instruction names (default empty)")
	fmt.Fprintln(w, "--default-integer <t>\ttype given to an integer literal that fails to parse (default DINT)")
	fmt.Fprintln(w, "--default-real <t>\tdefault type for untyped real literals (default REAL)")
	fmt.Fprintln(w, "-h, --help\tprint this message")
}
