// Command mash-log inspects session trace files written by mash-session
// -trace (or any pkg/log.FileLogger).
//
// Usage:
//
//	mash-log <command> [flags] <trace.slog>
//
// Commands:
//
//	view     print events one block per event
//	export   convert events to jsonl or csv
//	filter   copy matching events into a new trace file
//	stats    summarize events per source, category and session
//
// Examples:
//
//	mash-log view -category binding run.slog
//	mash-log view -source adapter -session-id 4f2c9a1e run.slog
//	mash-log export -format csv -o run.csv run.slog
//	mash-log filter -device-id 1 -o device1.slog run.slog
//	mash-log stats run.slog
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mash-protocol/mash-session/cmd/mash-log/commands"
	"github.com/mash-protocol/mash-session/pkg/log"
)

var errNoTrace = errors.New("missing trace file argument")

// command is one mash-log subcommand. setup registers its flags and returns
// the function that runs it against the trace file.
type command struct {
	summary string
	setup   func(fs *flag.FlagSet) func(path string) error
}

var commandTable = map[string]command{
	"view":   {summary: "print events one block per event", setup: setupView},
	"export": {summary: "convert events to jsonl or csv", setup: setupExport},
	"filter": {summary: "copy matching events into a new trace file", setup: setupFilter},
	"stats":  {summary: "summarize events per source, category and session", setup: setupStats},
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	name := os.Args[1]
	switch name {
	case "help", "-h", "-help", "--help":
		printUsage(os.Stdout)
		return
	}

	cmd, ok := commandTable[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "mash-log: no such command %q\n\n", name)
		printUsage(os.Stderr)
		os.Exit(2)
	}

	if err := runCommand(name, cmd, os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "mash-log %s: %v\n", name, err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: mash-log <command> [flags] <trace.slog>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")

	names := make([]string, 0, len(commandTable))
	for name := range commandTable {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-8s %s\n", name, commandTable[name].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, `run "mash-log <command> -h" for the flags of a command`)
}

func runCommand(name string, cmd command, args []string) error {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: mash-log %s [flags] <trace.slog>\n\n%s\n\n", name, cmd.summary)
		fs.PrintDefaults()
	}
	run := cmd.setup(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errNoTrace
	}
	return run(fs.Arg(0))
}

func setupView(fs *flag.FlagSet) func(string) error {
	sessionID := fs.String("session-id", "", "only events of this session")
	source := fs.String("source", "", "only events from this source: "+strings.Join(sourceNames, ", "))
	category := fs.String("category", "", "only events of this category: "+strings.Join(categoryNames, ", "))

	return func(path string) error {
		filter := commands.ViewFilter{SessionID: *sessionID}
		if *source != "" {
			src, err := commands.ParseSourceFlag(*source)
			if err != nil {
				return err
			}
			filter.Source = &src
		}
		if *category != "" {
			cat, err := commands.ParseCategoryFlag(*category)
			if err != nil {
				return err
			}
			filter.Category = &cat
		}
		return commands.RunView(path, filter, os.Stdout)
	}
}

func setupExport(fs *flag.FlagSet) func(string) error {
	format := fs.String("format", "jsonl", "jsonl or csv")
	output := fs.String("o", "", "write to this file instead of stdout")

	return func(path string) error {
		return commands.RunExport(path, *format, *output)
	}
}

func setupFilter(fs *flag.FlagSet) func(string) error {
	var opts commands.FilterOptions
	fs.StringVar(&opts.Output, "o", "", "destination trace file (required)")
	fs.StringVar(&opts.SessionID, "session-id", "", "keep events of this session")
	fs.StringVar(&opts.DeviceID, "device-id", "", "keep events of this device")
	fs.StringVar(&opts.TimeStart, "time-start", "", "keep events at or after this RFC3339 time")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "keep events before this RFC3339 time")
	fs.StringVar(&opts.Source, "source", "", "keep events from this source")
	fs.StringVar(&opts.Category, "category", "", "keep events of this category")

	return func(path string) error {
		if opts.Output == "" {
			return errors.New("-o is required")
		}
		n, err := commands.RunFilter(path, opts)
		if err != nil {
			return err
		}
		fmt.Printf("%d events written to %s\n", n, opts.Output)
		return nil
	}
}

func setupStats(*flag.FlagSet) func(string) error {
	return func(path string) error {
		return commands.RunStats(path, os.Stdout)
	}
}

var (
	sourceNames   = lowerNames(log.SourceSession, log.SourceAdapter)
	categoryNames = lowerNames(log.CategoryLifecycle, log.CategoryState, log.CategoryBinding, log.CategoryUseCase, log.CategoryError)
)

func lowerNames[T fmt.Stringer](values ...T) []string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = strings.ToLower(v.String())
	}
	return names
}
