package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"delta/interpreter-go/pkg/driver"
	"delta/interpreter-go/pkg/runtime"
)

const cliToolVersion = "delta-cli 0.0.0-dev"

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage(stdout)
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(stdout, cliToolVersion)
		return 0
	}

	overrides, rest, err := parseFlags(args[1:])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	switch args[0] {
	case "run":
		return runEntry(rest, overrides)
	case "check":
		return runCheck(rest)
	case "tree":
		return runTree(rest)
	case "cfg":
		return runGraph(rest)
	case "symbols":
		return runSymbols(rest)
	case "test":
		return runTests(rest, overrides)
	default:
		overrides, rest, err = parseFlags(args)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return runEntry(rest, overrides)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: delta <command> [flags] [args]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  run [target | file.json...]   run a manifest target or files as successive submissions")
	fmt.Fprintln(w, "  check file.json...            bind files and report diagnostics without running")
	fmt.Fprintln(w, "  tree file.json [name]         print the lowered body of the script or a function")
	fmt.Fprintln(w, "  cfg file.json name            print the control flow graph of a body as DOT")
	fmt.Fprintln(w, "  symbols file.json...          list the global symbols after binding")
	fmt.Fprintln(w, "  test [target...]              run the manifest's test targets")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "flags:")
	fmt.Fprintln(w, "  --max-steps N                 abort after N statements (-1 for unlimited)")
	fmt.Fprintln(w, "  --max-depth N                 abort after N nested calls")
	fmt.Fprintln(w, "  --emit none|tree|symbols      print the lowered script or symbols before running")
}

// parseFlags pulls the evaluation flags out of args, leaving positional
// arguments in order.
func parseFlags(args []string) (driver.Options, []string, error) {
	var opts driver.Options
	var rest []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(arg, "=")
		switch name {
		case "--max-steps", "--max-depth", "--emit":
		default:
			rest = append(rest, arg)
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("%s requires a value", name)
			}
			i++
			value = args[i]
		}
		switch name {
		case "--max-steps":
			n, err := strconv.Atoi(value)
			if err != nil || n < -1 || n == 0 {
				return opts, nil, fmt.Errorf("--max-steps must be -1 or a positive integer, got %q", value)
			}
			opts.MaxSteps = n
		case "--max-depth":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return opts, nil, fmt.Errorf("--max-depth must be a positive integer, got %q", value)
			}
			opts.MaxDepth = n
		case "--emit":
			opts.Emit = value
		}
	}
	return opts, rest, nil
}

func loadManifestFrom(dir string) (*driver.Manifest, error) {
	path, err := driver.FindManifest(dir)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(path)
}

func looksLikePathCandidate(arg string) bool {
	return strings.HasSuffix(arg, ".json") || strings.ContainsRune(arg, filepath.Separator)
}

func runEntry(args []string, overrides driver.Options) int {
	var manifest *driver.Manifest
	if len(args) <= 1 {
		var err error
		manifest, err = loadManifestFrom(".")
		if err != nil {
			switch {
			case errors.Is(err, driver.ErrManifestNotFound):
				manifest = nil
			case len(args) == 1 && looksLikePathCandidate(args[0]):
				fmt.Fprintf(stderr, "warning: unable to load manifest (%v); falling back to direct file execution\n", err)
				manifest = nil
			default:
				fmt.Fprintf(stderr, "failed to load manifest: %v\n", err)
				return 1
			}
		}
	}

	if len(args) == 0 {
		if manifest == nil {
			fmt.Fprintln(stderr, "delta run requires a manifest target or source file (package.yml not found)")
			return 1
		}
		target, err := manifest.DefaultExecutableTarget()
		if err != nil {
			fmt.Fprintf(stderr, "manifest error: %v\n", err)
			return 1
		}
		return runTarget(manifest, target, overrides)
	}

	if len(args) == 1 && manifest != nil && !looksLikePathCandidate(args[0]) {
		if target, ok := manifest.FindTarget(args[0]); ok {
			return runTarget(manifest, target, overrides)
		}
	}

	opts, err := driver.ResolveOptions(overrides)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return executeFiles(args, opts)
}

func runTarget(manifest *driver.Manifest, target *driver.TargetSpec, overrides driver.Options) int {
	opts, err := manifest.TargetOptions(target, overrides)
	if err != nil {
		fmt.Fprintf(stderr, "target %q: %v\n", target.OriginalName, err)
		return 1
	}
	return executeFiles(manifest.Submissions(target), opts)
}

func executeFiles(paths []string, opts driver.Options) int {
	session := driver.NewSession(stdout, opts)
	result, err := session.RunFiles(paths...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if len(result.Diagnostics) > 0 {
		fmt.Fprint(stderr, driver.FormatDiagnostics(result.Diagnostics))
		return 1
	}
	if result.Value != nil && result.Value.Kind() != runtime.KindUnit {
		fmt.Fprintln(stdout, runtime.Format(result.Value))
	}
	return 0
}

// compile binds paths as successive submissions and reports diagnostics of
// the first one that fails.
func compile(paths []string) (*driver.Compilation, bool) {
	if len(paths) == 0 {
		fmt.Fprintln(stderr, "expected at least one source file")
		return nil, false
	}
	var compilation *driver.Compilation
	for _, path := range paths {
		mod, err := driver.LoadModule(path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return nil, false
		}
		if compilation == nil {
			compilation = driver.NewCompilation(mod)
		} else {
			compilation = compilation.ContinueWith(mod)
		}
		if program := compilation.Program(); program.HasErrors() {
			fmt.Fprint(stderr, driver.FormatDiagnostics(program.Diagnostics))
			return nil, false
		}
	}
	return compilation, true
}

func runCheck(args []string) int {
	if _, ok := compile(args); !ok {
		return 1
	}
	return 0
}

func runTree(args []string) int {
	if len(args) == 0 || len(args) > 2 {
		fmt.Fprintln(stderr, "usage: delta tree file.json [name]")
		return 1
	}
	compilation, ok := compile(args[:1])
	if !ok {
		return 1
	}
	name := ""
	if len(args) == 2 {
		name = args[1]
	}
	if err := compilation.EmitTree(stdout, name); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func runGraph(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(stderr, "usage: delta cfg file.json name")
		return 1
	}
	compilation, ok := compile(args[:1])
	if !ok {
		return 1
	}
	if err := compilation.EmitGraph(stdout, args[1]); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func runSymbols(args []string) int {
	compilation, ok := compile(args)
	if !ok {
		return 1
	}
	if err := compilation.WriteSymbols(stdout); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func runTests(args []string, overrides driver.Options) int {
	manifest, err := loadManifestFrom(".")
	if err != nil {
		fmt.Fprintf(stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	targets := manifest.TestTargets()
	if len(args) > 0 {
		targets = targets[:0:0]
		for _, name := range args {
			target, ok := manifest.FindTarget(name)
			if !ok || target.Type != driver.TargetTypeTest {
				fmt.Fprintf(stderr, "unknown test target %q\n", name)
				return 1
			}
			targets = append(targets, target)
		}
	}
	if len(targets) == 0 {
		fmt.Fprintln(stderr, "no test targets defined")
		return 1
	}

	failed := 0
	for _, target := range targets {
		result, err := manifest.RunTest(target, overrides)
		if err != nil {
			fmt.Fprintf(stderr, "target %q: %v\n", target.OriginalName, err)
			failed++
			continue
		}
		if result.Passed() {
			fmt.Fprintf(stdout, "PASS %s\n", result.Target)
			continue
		}
		failed++
		fmt.Fprintf(stdout, "FAIL %s\n", result.Target)
		for _, failure := range result.Failures {
			fmt.Fprintf(stdout, "  %s\n", failure)
		}
	}
	fmt.Fprintf(stdout, "%d passed, %d failed\n", len(targets)-failed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}
