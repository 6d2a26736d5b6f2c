package main

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/arena/alloc"
)

func init() {
	rootCmd.AddCommand(newDemoCmd())
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in allocation scenarios",
		Long: `The demo command runs a fixed set of scenarios, each on a fresh arena,
and prints the block list after each one:

  int        allocate and free a 4-byte integer
  string     allocate and free a 10-byte string
  multiple   allocate two integers, free both
  coalesce   allocate A, B, C; free B, A, C
  oom        request more than the arena holds

Example:
  arenactl demo
  arenactl demo --arena-bytes 4096 --offsets
  arenactl demo --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
	return cmd
}

// demoScenario is one self-contained harness step.
type demoScenario struct {
	name  string
	title string
	run   func(a *alloc.Allocator) error
}

// demoResult is the JSON form of one scenario outcome.
type demoResult struct {
	Name   string            `json:"name"`
	Blocks []alloc.BlockInfo `json:"blocks"`
	Error  string            `json:"error,omitempty"`
}

var demoScenarios = []demoScenario{
	{name: "int", title: "Integer Allocation", run: demoInt},
	{name: "string", title: "String Allocation", run: demoString},
	{name: "multiple", title: "Multiple Allocations", run: demoMultiple},
	{name: "coalesce", title: "Coalescing Free Blocks", run: demoCoalesce},
	{name: "oom", title: "Out of Memory", run: demoOutOfMemory},
}

func runDemo() error {
	printInfo("Custom Memory Allocator - Modular Tests\n")

	var results []demoResult
	for _, sc := range demoScenarios {
		a, err := newAllocator()
		if err != nil {
			return err
		}

		printInfo("Test: %s\n", sc.title)
		runErr := sc.run(a)

		if jsonOut {
			res := demoResult{Name: sc.name, Blocks: a.Inspect()}
			if runErr != nil {
				res.Error = runErr.Error()
			}
			results = append(results, res)
			continue
		}
		if runErr != nil {
			printInfo("  failed: %v\n", runErr)
		}
		if !quiet {
			if err := newPrinter("").PrintBlocks(a.Inspect()); err != nil {
				return err
			}
		}
	}

	if jsonOut {
		return printJSON(results)
	}
	return nil
}

func demoInt(a *alloc.Allocator) error {
	h, p, err := a.Alloc(4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(p, 10)
	printInfo("Allocated int: %d\n", binary.LittleEndian.Uint32(p))
	return a.Free(h)
}

func demoString(a *alloc.Allocator) error {
	h, p, err := a.Alloc(10)
	if err != nil {
		return err
	}
	n := copy(p, "Hello")
	printInfo("Allocated string: %s\n", p[:n])
	return a.Free(h)
}

func demoMultiple(a *alloc.Allocator) error {
	ha, pa, err := a.Alloc(4)
	if err != nil {
		return err
	}
	hb, pb, err := a.Alloc(4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(pa, 5)
	binary.LittleEndian.PutUint32(pb, 15)
	printInfo("a = %d, b = %d\n", binary.LittleEndian.Uint32(pa), binary.LittleEndian.Uint32(pb))
	return errors.Join(a.Free(ha), a.Free(hb))
}

func demoCoalesce(a *alloc.Allocator) error {
	var hs [3]alloc.Handle
	for i := range hs {
		h, _, err := a.Alloc(50)
		if err != nil {
			return fmt.Errorf("alloc %c: %w", 'a'+i, err)
		}
		hs[i] = h
	}
	printVerbose("  allocated a=%s b=%s c=%s\n", hs[0], hs[1], hs[2])
	// Middle first, then the neighbors.
	return errors.Join(a.Free(hs[1]), a.Free(hs[0]), a.Free(hs[2]))
}

func demoOutOfMemory(a *alloc.Allocator) error {
	_, _, err := a.Alloc(a.Capacity() * 2)
	if errors.Is(err, alloc.ErrOutOfMemory) {
		printInfo("Out of memory handled correctly.\n")
		return nil
	}
	if err != nil {
		return err
	}
	return errors.New("oversized request unexpectedly succeeded")
}
