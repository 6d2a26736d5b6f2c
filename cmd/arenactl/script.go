package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// opKind identifies a script instruction.
type opKind int

const (
	opAlloc opKind = iota
	opFree
	opWrite
	opRead
	opReset
	opPrint
	opStats
	opVerify
)

var opNames = map[string]opKind{
	"alloc":  opAlloc,
	"free":   opFree,
	"write":  opWrite,
	"read":   opRead,
	"reset":  opReset,
	"print":  opPrint,
	"stats":  opStats,
	"verify": opVerify,
}

// scriptOp is one parsed script line.
type scriptOp struct {
	kind opKind
	line int
	name string // handle name for alloc/free/write/read
	size int    // alloc only
	text string // write payload, or print title
}

// SyntaxError reports a malformed script line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

var errEmptyScript = errors.New("script has no instructions")

// parseScript reads one instruction per line. Blank lines and lines
// starting with '#' are skipped.
//
//	alloc NAME SIZE
//	free NAME
//	write NAME TEXT...
//	read NAME
//	reset
//	print [TITLE...]
//	stats
//	verify
func parseScript(r io.Reader) ([]scriptOp, error) {
	var ops []scriptOp
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		op, err := parseLine(lineNo, line)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	if len(ops) == 0 {
		return nil, errEmptyScript
	}
	return ops, nil
}

func parseLine(lineNo int, line string) (scriptOp, error) {
	fields := strings.Fields(line)
	kind, ok := opNames[strings.ToLower(fields[0])]
	if !ok {
		return scriptOp{}, &SyntaxError{Line: lineNo, Msg: fmt.Sprintf("unknown instruction %q", fields[0])}
	}
	args := fields[1:]
	op := scriptOp{kind: kind, line: lineNo}

	want := func(n int, usage string) error {
		if len(args) != n {
			return &SyntaxError{Line: lineNo, Msg: "usage: " + usage}
		}
		return nil
	}

	switch kind {
	case opAlloc:
		if err := want(2, "alloc NAME SIZE"); err != nil {
			return op, err
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return op, &SyntaxError{Line: lineNo, Msg: fmt.Sprintf("bad size %q", args[1])}
		}
		op.name, op.size = args[0], n
	case opFree, opRead:
		if err := want(1, fields[0]+" NAME"); err != nil {
			return op, err
		}
		op.name = args[0]
	case opWrite:
		if len(args) < 2 {
			return op, &SyntaxError{Line: lineNo, Msg: "usage: write NAME TEXT..."}
		}
		op.name = args[0]
		op.text = strings.Join(args[1:], " ")
	case opPrint:
		op.text = strings.Join(args, " ")
	case opReset, opStats, opVerify:
		if err := want(0, fields[0]); err != nil {
			return op, err
		}
	}
	return op, nil
}
