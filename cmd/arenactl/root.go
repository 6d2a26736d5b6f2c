package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/arena/alloc"
	"github.com/joshuapare/arenakit/arena/printer"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	showOffset bool
	arenaBytes int
	zeroPolicy string
)

var rootCmd = &cobra.Command{
	Use:   "arenactl",
	Short: "Exercise and inspect a fixed-size arena allocator",
	Long: `arenactl runs allocation workloads against a single fixed-size arena
and prints the resulting block list. It is meant for exploring first-fit
placement, splitting, and coalescing behavior.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log allocator events to stderr")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&showOffset, "offsets", false, "Show block header offsets")
	rootCmd.PersistentFlags().
		IntVar(&arenaBytes, "arena-bytes", alloc.DefaultArenaBytes, "Arena capacity in bytes (multiple of 4)")
	rootCmd.PersistentFlags().
		StringVar(&zeroPolicy, "zero", "reserve", "Zero-size request policy (reserve, reject)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newAllocator builds an allocator from the global flags.
func newAllocator() (*alloc.Allocator, error) {
	policy, err := alloc.ParseZeroSizePolicy(zeroPolicy)
	if err != nil {
		return nil, err
	}
	opts := alloc.DefaultOptions()
	opts.ArenaBytes = arenaBytes
	opts.ZeroSize = policy
	if verbose {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return alloc.New(&opts)
}

// newPrinter builds a printer writing to stdout in the format the flags select.
func newPrinter(title string) *printer.Printer {
	opts := printer.DefaultOptions()
	opts.ShowOffsets = showOffset
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	if title != "" {
		opts.Title = title
	}
	return printer.New(os.Stdout, opts)
}

// Helper functions for output

// printInfo prints an info message unless quiet or JSON output is selected
func printInfo(format string, args ...interface{}) {
	if !quiet && !jsonOut {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet && !jsonOut {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
