// Package main is the entry point for the Pixelplay editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pixelplay/internal/app"
	"github.com/dshills/pixelplay/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	app.Options
	export string
	list   bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, opts.Options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	switch {
	case opts.list:
		if err := application.ListProjects(ctx, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	case opts.export != "":
		if err := application.Export(opts.export); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("Exported %s\n", opts.export)
		return 0
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.Run(ctx, screen); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.Owner, "owner", "", "Project owner (defaults to config, then $USER)")
	flag.StringVar(&opts.Project, "project", "", "Open or create the named project")
	flag.StringVar(&opts.Project, "p", "", "Open or create the named project (shorthand)")
	flag.StringVar(&opts.Script, "script", "", "Lua script generating the initial canvas")
	flag.StringVar(&opts.export, "export", "", "Write the canvas to this PNG file and exit")
	flag.BoolVar(&opts.list, "list", false, "List the owner's projects and exit")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Pixelplay - terminal pixel art editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pixelplay [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pixelplay                          Start with a blank canvas\n")
		fmt.Fprintf(os.Stderr, "  pixelplay -p heart                 Open or create project \"heart\"\n")
		fmt.Fprintf(os.Stderr, "  pixelplay -script rings.lua        Start from a generated canvas\n")
		fmt.Fprintf(os.Stderr, "  pixelplay -p heart -export h.png   Export a saved project\n")
		fmt.Fprintf(os.Stderr, "  pixelplay -list                    List saved projects\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Pixelplay %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.LogLevel != "" {
		if _, err := logging.ParseLevel(opts.LogLevel); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %v\n", flag.Args())
		flag.Usage()
		os.Exit(2)
	}

	return opts
}
