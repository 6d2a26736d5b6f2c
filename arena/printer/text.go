package printer

import (
	"fmt"

	"golang.org/x/text/message"

	"github.com/joshuapare/arenakit/arena/alloc"
)

// printBlocksText prints blocks in the classic listing layout:
//
//	[Memory Blocks Status]
//	Block 0 - Size: 52, Free: 0
//	Block 1 - Size: 948, Free: 1
func (p *Printer) printBlocksText(blocks []alloc.BlockInfo) error {
	title := p.opts.Title
	if title == "" {
		title = DefaultOptions().Title
	}
	if _, err := fmt.Fprintf(p.writer, "\n[%s]\n", title); err != nil {
		return err
	}
	for _, b := range blocks {
		if _, err := fmt.Fprintf(p.writer, "Block %d - Size: %d, Free: %d", b.Index, b.PayloadSize, boolInt(b.Free)); err != nil {
			return err
		}
		if p.opts.ShowOffsets {
			if _, err := fmt.Fprintf(p.writer, ", Offset: 0x%X", b.Offset); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(p.writer); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(p.writer)
	return err
}

// printStatsText prints a grouped-digit summary using the configured locale.
func (p *Printer) printStatsText(s alloc.Stats) error {
	mp := message.NewPrinter(p.opts.Locale)

	lines := []struct {
		format string
		args   []any
	}{
		{"Capacity:      %d bytes\n", []any{s.Capacity}},
		{"Used:          %d bytes in %d blocks\n", []any{s.UsedBytes, s.Blocks - s.FreeBlocks}},
		{"Free:          %d bytes in %d blocks\n", []any{s.FreeBytes, s.FreeBlocks}},
		{"Largest free:  %d bytes\n", []any{s.LargestFree}},
		{"Headers:       %d bytes\n", []any{s.HeaderBytes}},
		{"Utilization:   %.1f%%\n", []any{s.Utilization * 100}},
		{"Calls:         %d alloc, %d free\n", []any{s.AllocCalls, s.FreeCalls}},
		{"Splits/merges: %d/%d\n", []any{s.Splits, s.Merges}},
		{"Failures:      %d out of memory, %d rejected free\n", []any{s.OutOfMemory, s.RejectedFree}},
	}
	for _, l := range lines {
		if _, err := mp.Fprintf(p.writer, l.format, l.args...); err != nil {
			return err
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
