package client

import (
	"bytes"
	"net"
	"strings"
	"testing"

	"kvstored/source/dispatch"
	"kvstored/source/store"
	"kvstored/source/wire"
)

// dispatchServer accepts one connection and runs real dispatch.Execute
// against an in-memory Keyspace, so the REPL test exercises the full
// round trip end to end.
func dispatchServer(t *testing.T, ln net.Listener, ks *store.Keyspace) {
	t.Helper()
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		for {
			lenBuf := make([]byte, 4)
			if _, err := readFull(c, lenBuf); err != nil {
				return
			}
			total, _ := wire.PeekFrameLen(lenBuf)
			body := make([]byte, total)
			if _, err := readFull(c, body); err != nil {
				return
			}
			argv, err := wire.ParseRequest(body)
			var reply []byte
			if err != nil {
				reply = wire.AppendErr(reply, "malformed request")
			} else {
				dispatch.Execute(ks, argv, &reply)
			}
			c.Write(wire.FrameReply(nil, reply))
		}
	}()
}

func TestREPLRunsSetAndGet(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()
	dispatchServer(t, ln, store.New())

	tr, err := Dial(ln.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer tr.Close()

	in := strings.NewReader("set foo bar\nget foo\n")
	var out, errs bytes.Buffer
	r := NewREPL(tr, in, &out, &errs)
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if errs.Len() != 0 {
		t.Fatalf("unexpected stderr output: %q", errs.String())
	}
	text := out.String()
	if !strings.Contains(text, "OK") || !strings.Contains(text, "bar") {
		t.Fatalf("output = %q, want it to contain both replies", text)
	}
}

func TestREPLRoutesErrReplyToStderr(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()
	dispatchServer(t, ln, store.New())

	tr, err := Dial(ln.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer tr.Close()

	in := strings.NewReader("bogus-command\n")
	var out, errs bytes.Buffer
	r := NewREPL(tr, in, &out, &errs)
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.HasPrefix(errs.String(), "(error) ") {
		t.Fatalf("stderr = %q, want an (error)-prefixed line", errs.String())
	}
}
