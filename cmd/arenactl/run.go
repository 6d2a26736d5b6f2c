package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/arena/alloc"
	"github.com/joshuapare/arenakit/arena/printer"
	"github.com/joshuapare/arenakit/arena/verify"
)

var runStrict bool

func init() {
	cmd := newRunCmd()
	cmd.Flags().BoolVar(&runStrict, "strict", false, "Exit non-zero if any instruction fails")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Execute an allocation script",
		Long: `The run command executes a script of allocator instructions against a
single arena. Use "-" to read the script from stdin.

Instructions (one per line, '#' starts a comment):
  alloc NAME SIZE     reserve SIZE bytes and bind the handle to NAME
  free NAME           release the handle bound to NAME
  write NAME TEXT...  copy TEXT into the payload
  read NAME           print the payload contents
  reset               reinitialize the arena (existing handles go stale)
  print [TITLE...]    print the block list
  stats               print occupancy and activity counters
  verify              check the arena invariants

Allocator failures are reported and execution continues. Syntax errors
abort before anything runs.

Example:
  arenactl run workload.txt
  echo "alloc a 50
print" | arenactl run -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}
	return cmd
}

func runRun(args []string) error {
	var r io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		r = f
	}

	ops, err := parseScript(r)
	if err != nil {
		return err
	}

	a, err := newAllocator()
	if err != nil {
		return err
	}

	popts := printer.DefaultOptions()
	popts.ShowOffsets = showOffset
	if jsonOut {
		popts.Format = printer.FormatJSON
	}

	sr := newScriptRunner(a, os.Stdout, popts)
	sr.quiet = quiet || jsonOut
	if err := sr.run(ops); err != nil {
		return err
	}

	printVerbose("%d instructions, %d failed\n", len(ops), sr.failures)
	if runStrict && sr.failures > 0 {
		return fmt.Errorf("%d instruction(s) failed", sr.failures)
	}
	return nil
}

// scriptRunner executes parsed instructions against one allocator.
type scriptRunner struct {
	a        *alloc.Allocator
	out      io.Writer
	errOut   io.Writer
	popts    printer.Options
	handles  map[string]alloc.Handle
	quiet    bool
	failures int
}

func newScriptRunner(a *alloc.Allocator, out io.Writer, popts printer.Options) *scriptRunner {
	return &scriptRunner{
		a:       a,
		out:     out,
		errOut:  os.Stderr,
		popts:   popts,
		handles: make(map[string]alloc.Handle),
	}
}

// run executes ops in order. Only output errors stop it.
func (sr *scriptRunner) run(ops []scriptOp) error {
	for _, op := range ops {
		if err := sr.exec(op); err != nil {
			return err
		}
	}
	return nil
}

func (sr *scriptRunner) info(format string, args ...any) {
	if !sr.quiet {
		fmt.Fprintf(sr.out, format, args...)
	}
}

// fail records a failed instruction. Failures go to errOut regardless of
// --quiet and --json.
func (sr *scriptRunner) fail(op scriptOp, err error) {
	sr.failures++
	fmt.Fprintf(sr.errOut, "line %d: %v\n", op.line, err)
}

func (sr *scriptRunner) lookup(op scriptOp) (alloc.Handle, bool) {
	h, ok := sr.handles[op.name]
	if !ok {
		sr.fail(op, fmt.Errorf("unknown handle %q", op.name))
	}
	return h, ok
}

func (sr *scriptRunner) exec(op scriptOp) error {
	switch op.kind {
	case opAlloc:
		h, p, err := sr.a.Alloc(op.size)
		if err != nil {
			sr.fail(op, fmt.Errorf("alloc %s %d: %w", op.name, op.size, err))
			return nil
		}
		sr.handles[op.name] = h
		sr.info("%s = %s, %d bytes\n", op.name, h, len(p))

	case opFree:
		h, ok := sr.lookup(op)
		if !ok {
			return nil
		}
		if err := sr.a.Free(h); err != nil {
			sr.fail(op, fmt.Errorf("free %s: %w", op.name, err))
			return nil
		}
		sr.info("freed %s\n", op.name)

	case opWrite:
		h, ok := sr.lookup(op)
		if !ok {
			return nil
		}
		p, err := sr.a.Payload(h)
		if err != nil {
			sr.fail(op, fmt.Errorf("write %s: %w", op.name, err))
			return nil
		}
		if n := copy(p, op.text); n < len(op.text) {
			sr.fail(op, fmt.Errorf("write %s: truncated to %d of %d bytes", op.name, n, len(op.text)))
		}

	case opRead:
		h, ok := sr.lookup(op)
		if !ok {
			return nil
		}
		p, err := sr.a.Payload(h)
		if err != nil {
			sr.fail(op, fmt.Errorf("read %s: %w", op.name, err))
			return nil
		}
		sr.info("%s: %q\n", op.name, bytes.TrimRight(p, "\x00"))

	case opReset:
		sr.a.Initialize()
		sr.info("arena reset\n")

	case opPrint:
		opts := sr.popts
		if op.text != "" {
			opts.Title = op.text
		}
		if sr.quiet && opts.Format != printer.FormatJSON {
			return nil
		}
		return printer.New(sr.out, opts).PrintBlocks(sr.a.Inspect())

	case opStats:
		if sr.quiet && sr.popts.Format != printer.FormatJSON {
			return nil
		}
		return printer.New(sr.out, sr.popts).PrintStats(sr.a.Stats())

	case opVerify:
		if err := verify.AllInvariants(sr.a.Bytes()); err != nil {
			sr.fail(op, fmt.Errorf("verify: %w", err))
			return nil
		}
		sr.info("verify: ok\n")
	}
	return nil
}
