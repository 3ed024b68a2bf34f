package client

import (
	"net"
	"testing"

	"kvstored/source/wire"
)

// fakeServer accepts one connection and replies to every request with a
// canned STR "OK" value, echoing back exactly one reply per request.
func fakeServer(t *testing.T, ln net.Listener) {
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
			var reply []byte
			reply = wire.AppendStr(reply, []byte("OK"))
			framed := wire.FrameReply(nil, reply)
			c.Write(framed)
		}
	}()
}

func TestTransportCallRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()
	fakeServer(t, ln)

	tr, err := Dial(ln.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer tr.Close()

	v, err := tr.Call([][]byte{[]byte("set"), []byte("foo"), []byte("bar")})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if v.Tag != wire.TagStr || string(v.Str) != "OK" {
		t.Fatalf("got %+v, want STR OK", v)
	}
}

func TestTransportRejectsOversizeReply(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		lenBuf := make([]byte, 4)
		readFull(c, lenBuf)
		total, _ := wire.PeekFrameLen(lenBuf)
		body := make([]byte, total)
		readFull(c, body)

		// declare a reply_len far beyond MaxReplyLen
		oversize := make([]byte, 4)
		oversize[3] = 0xff
		c.Write(oversize)
	}()

	tr, err := Dial(ln.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer tr.Close()

	_, err = tr.Call([][]byte{[]byte("get"), []byte("x")})
	if err == nil {
		t.Fatal("expected an error for an oversize declared reply length")
	}
}
