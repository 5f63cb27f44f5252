// Package main is the entry point for layoutswitch.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/layoutswitch/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// mode selects what run does after the application is built.
type mode int

const (
	modeEdit mode = iota
	modeTranslate
	modeScript
)

type cliOptions struct {
	app.Options
	mode   mode
	target string
	script string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(opts.Options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	switch opts.mode {
	case modeTranslate:
		return translate(application, opts)
	case modeScript:
		return script(ctx, application, opts)
	}

	if err := application.RunScripts(ctx); err != nil {
		application.Logger().Warn("startup scripts: %v", err)
	}

	if err := application.Run(ctx); err != nil {
		// A user quit or a signal is a normal exit.
		if errors.Is(err, app.ErrQuit) || errors.Is(err, context.Canceled) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// translate copies stdin, or the named file, to stdout through the layout
// table.
func translate(application *app.Application, opts cliOptions) int {
	var in io.Reader = os.Stdin
	if opts.File != "" {
		f, err := os.Open(opts.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	if err := app.Translate(application.Table(), os.Stdout, in, opts.target); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// script runs a Lua file against the buffer and prints the resulting text.
func script(ctx context.Context, application *app.Application, opts cliOptions) int {
	if err := application.RunScript(ctx, opts.script); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(application.Editor().Text())
	return 0
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&opts.Debug, "d", false, "Enable debug logging (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	flag.StringVar(&opts.target, "translate", "", "Translate input to stdout instead of editing (en, ru, auto)")
	flag.StringVar(&opts.target, "t", "", "Translate input to stdout (shorthand)")
	flag.StringVar(&opts.script, "exec", "", "Run a Lua script against the buffer and print the result")
	flag.StringVar(&opts.script, "e", "", "Run a Lua script against the buffer (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "layoutswitch - fix text typed in the wrong keyboard layout\n\n")
		fmt.Fprintf(os.Stderr, "Usage: layoutswitch [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  layoutswitch notes.txt             Edit a file\n")
		fmt.Fprintf(os.Stderr, "  echo ghbdtn | layoutswitch -t auto Print \"привет\"\n")
		fmt.Fprintf(os.Stderr, "  layoutswitch -e fix.lua notes.txt  Run a script and print the buffer\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("layoutswitch %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: at most one file may be given\n")
		os.Exit(1)
	}
	opts.File = flag.Arg(0)

	switch {
	case opts.target != "" && opts.script != "":
		fmt.Fprintf(os.Stderr, "Error: -translate and -exec are mutually exclusive\n")
		os.Exit(1)
	case opts.target != "":
		opts.mode = modeTranslate
	case opts.script != "":
		opts.mode = modeScript
	default:
		// Logging to the terminal would corrupt the screen.
		opts.LogOutput = io.Discard
	}

	return opts
}
