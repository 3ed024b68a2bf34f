// Package client implements the interactive command-line client: a
// blocking request/response Transport over one TCP connection, and a
// REPL built on it. The client is an external collaborator per spec.md
// §2 — only its wire protocol use is specified — so it is free to use
// ordinary blocking net.Conn instead of the server's epoll loop.
package client

import (
	"net"
	"time"

	"kvstored/source/wire"

	"github.com/pkg/errors"
)

// MaxReplyLen bounds a reply this client will accept, guarding against
// a misbehaving or malicious server declaring an enormous reply_len.
const MaxReplyLen = 10 * 1024 * 1024

// Transport is a single blocking connection to a kvstored server.
type Transport struct {
	conn net.Conn
}

// Dial connects to addr ("host:port").
func Dial(addr string) (*Transport, error) {
	c, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, errors.Wrap(err, "client: dial")
	}
	return &Transport{conn: c}, nil
}

// Close closes the underlying connection.
func (t *Transport) Close() error {
	return t.conn.Close()
}

// Call sends one request and blocks for its reply.
func (t *Transport) Call(argv [][]byte) (wire.Value, error) {
	frame, err := wire.BuildRequest(argv)
	if err != nil {
		return wire.Value{}, errors.Wrap(err, "client: build request")
	}
	if _, err := t.conn.Write(frame); err != nil {
		return wire.Value{}, errors.Wrap(err, "client: write request")
	}
	return t.readReply()
}

func (t *Transport) readReply() (wire.Value, error) {
	lenBuf := make([]byte, wire.FrameLenPrefixSize)
	if _, err := readFull(t.conn, lenBuf); err != nil {
		return wire.Value{}, errors.Wrap(err, "client: read reply length")
	}
	total, _ := wire.PeekFrameLen(lenBuf)
	if total > MaxReplyLen {
		return wire.Value{}, errors.Errorf("client: reply of %d bytes exceeds %d-byte cap", total, MaxReplyLen)
	}

	body := make([]byte, total)
	if _, err := readFull(t.conn, body); err != nil {
		return wire.Value{}, errors.Wrap(err, "client: read reply body")
	}

	v, n, err := wire.DecodeValue(body)
	if err != nil {
		return wire.Value{}, errors.Wrap(err, "client: decode reply")
	}
	if n != len(body) {
		return wire.Value{}, errors.New("client: trailing bytes after reply value")
	}
	return v, nil
}

func readFull(c net.Conn, buf []byte) (int, error) {
	read := 0
	for read < len(buf) {
		n, err := c.Read(buf[read:])
		if err != nil {
			return read, err
		}
		read += n
	}
	return read, nil
}
