package client

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"kvstored/source/wire"
)

// REPL reads whitespace-separated commands from in, issues them over a
// Transport, and writes results to out (stdout-style) or errs
// (stderr-style, prefixed "(error) " per the teacher's convention of a
// distinct color/prefix per severity).
type REPL struct {
	t    *Transport
	in   *bufio.Scanner
	out  io.Writer
	errs io.Writer
}

// NewREPL builds a REPL reading lines from in and writing to out/errs.
func NewREPL(t *Transport, in io.Reader, out, errs io.Writer) *REPL {
	return &REPL{t: t, in: bufio.NewScanner(in), out: out, errs: errs}
}

// Run reads commands until in is exhausted or a read error occurs.
func (r *REPL) Run() error {
	for {
		fmt.Fprint(r.out, "> ")
		if !r.in.Scan() {
			return r.in.Err()
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		argv := make([][]byte, len(fields))
		for i, f := range fields {
			argv[i] = []byte(f)
		}

		v, err := r.t.Call(argv)
		if err != nil {
			fmt.Fprintf(r.errs, "(error) %v\n", err)
			continue
		}
		r.printValue(v)
	}
}

func (r *REPL) printValue(v wire.Value) {
	switch v.Tag {
	case wire.TagErr:
		fmt.Fprintf(r.errs, "(error) %s\n", v.Str)
	case wire.TagNil:
		fmt.Fprintln(r.out, "(nil)")
	case wire.TagStr:
		fmt.Fprintln(r.out, string(v.Str))
	case wire.TagInt:
		fmt.Fprintln(r.out, v.Int)
	case wire.TagDbl:
		fmt.Fprintln(r.out, v.Dbl)
	case wire.TagArr:
		for _, e := range v.Arr {
			r.printValue(e)
		}
	}
}
