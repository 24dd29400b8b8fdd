// Package main provides the CLI entrypoint for typecaster.
//
// typecaster is a developer tool around the typecaster engine:
//   - describe: derives a schema file from Go packages
//   - check: builds a schema file and compiles every named type in both directions
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"typecaster/compiler"
	"typecaster/internal/analyze"
	"typecaster/internal/diagnostic"
	"typecaster/schema"
	"typecaster/serializer"
)

const usage = `usage: typecaster <command> [flags] [args]

Commands:
  describe [-o file] packages...   write a schema file describing Go packages
  check [-v] file                  build a schema file and compile all of its types
`

var errFailed = errors.New("check failed")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error

	switch args[0] {
	case "describe":
		err = describe(args[1:], stdout, stderr)
	case "check":
		err = check(args[1:], stdout, stderr)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	switch {
	case errors.Is(err, flag.ErrHelp):
		return 0
	case err != nil:
		fmt.Fprintln(stderr, "typecaster:", err)
		return 1
	}

	return 0
}

func describe(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("o", "", "write the schema to `file` instead of stdout")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		return errors.New("describe needs at least one package pattern")
	}

	file, diags, err := analyze.NewAnalyzer().LoadPackages(fs.Args()...)
	if err != nil {
		return err
	}

	report(stderr, diags)

	if diags.HasErrors() {
		return errFailed
	}

	if *out != "" {
		return schema.WriteFile(file, *out)
	}

	data, err := schema.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	_, err = stdout.Write(data)

	return err
}

func check(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "log every compiled converter")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return errors.New("check needs exactly one schema file")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	file, err := schema.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	s, diags := schema.Build(file)
	report(stderr, diags)

	if diags.HasErrors() {
		return errFailed
	}

	cfg, err := file.Options.Config()
	if err != nil {
		return err
	}

	cfg.Logger = logger
	c := compiler.New(serializer.JSON(cfg), compiler.WithLogger(logger))

	failed := 0

	for _, name := range s.Names() {
		ref, _ := s.Ref(name)

		for _, dir := range []serializer.Direction{serializer.Cast, serializer.Serialize} {
			if _, err := c.Compile(ref, dir); err != nil {
				logger.Error("compilation failed", "type", name, "direction", dir.String(), "error", err)
				failed++
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d converters did not compile", errFailed, failed)
	}

	fmt.Fprintf(stdout, "%s: %d types ok (dialect %s)\n", fs.Arg(0), len(s.Names()), cfg.Name)

	return nil
}

func report(w io.Writer, diags *diagnostic.Diagnostics) {
	for _, d := range slices.Concat(diags.Errors, diags.Warnings) {
		fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
	}
}
