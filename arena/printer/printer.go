// Package printer renders allocator diagnostics for humans and tools.
package printer

import (
	"fmt"
	"io"

	"golang.org/x/text/language"

	"github.com/joshuapare/arenakit/arena/alloc"
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs the human-readable block listing.
	FormatText Format = "text"

	// FormatJSON outputs JSON.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// ShowOffsets appends each block's header offset (text format only).
	// Default: false
	ShowOffsets bool

	// Title is printed above the block listing (text format only).
	// Default: "Memory Blocks Status"
	Title string

	// Locale controls digit grouping in stats output (text format only).
	// Default: language.English
	Locale language.Tag
}

// DefaultOptions returns the defaults, which reproduce the classic
// "[Memory Blocks Status]" listing.
func DefaultOptions() Options {
	return Options{
		Format:      FormatText,
		ShowOffsets: false,
		Title:       "Memory Blocks Status",
		Locale:      language.English,
	}
}

// Printer writes block listings and stats to a writer.
type Printer struct {
	opts   Options
	writer io.Writer
}

// New creates a new Printer.
//
// Example:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintBlocks(a.Inspect())
func New(w io.Writer, opts Options) *Printer {
	return &Printer{
		writer: w,
		opts:   opts,
	}
}

// PrintBlocks prints a block listing as produced by alloc.Allocator.Inspect.
func (p *Printer) PrintBlocks(blocks []alloc.BlockInfo) error {
	switch p.opts.Format {
	case FormatText, "":
		return p.printBlocksText(blocks)
	case FormatJSON:
		return p.printJSON(blocks)
	default:
		return fmt.Errorf("unsupported format: %s", p.opts.Format)
	}
}

// PrintStats prints an occupancy and activity summary.
func (p *Printer) PrintStats(s alloc.Stats) error {
	switch p.opts.Format {
	case FormatText, "":
		return p.printStatsText(s)
	case FormatJSON:
		return p.printJSON(s)
	default:
		return fmt.Errorf("unsupported format: %s", p.opts.Format)
	}
}
