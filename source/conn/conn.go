// Package conn implements the per-connection state machine: reading
// request frames off a socket, dispatching them against a Keyspace, and
// writing the framed replies back. See spec.md §4.4.
package conn

import (
	"io"

	"kvstored/source/dispatch"
	"kvstored/source/store"
	"kvstored/source/wire"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// State is one of the three connection states.
type State int

const (
	Reading State = iota
	Writing
	Closing
)

func (s State) String() string {
	switch s {
	case Reading:
		return "READING"
	case Writing:
		return "WRITING"
	default:
		return "CLOSING"
	}
}

// readChunk is the stack-buffer size used per read(2) call.
const readChunk = 64 * 1024

// Connection owns one client socket's buffers and state. It is created
// by the engine on accept and destroyed when it reaches Closing.
type Connection struct {
	FD    int
	State State

	rbuf []byte
	wbuf []byte
	sent int // bytes of wbuf already written
}

// New wraps a freshly-accepted, non-blocking socket fd.
func New(fd int) *Connection {
	return &Connection{
		FD:    fd,
		State: Reading,
		rbuf:  make([]byte, 0, wire.FrameLenPrefixSize+wire.MaxFrameLen),
		wbuf:  make([]byte, 0, wire.FrameLenPrefixSize+wire.MaxFrameLen),
	}
}

// WantRead reports whether the engine should poll this connection for
// read readiness.
func (c *Connection) WantRead() bool { return c.State == Reading }

// WantWrite reports whether the engine should poll this connection for
// write readiness.
func (c *Connection) WantWrite() bool { return c.State == Writing }

// HandleRead drains the socket into the read buffer and processes at
// most one complete frame before returning, per spec.md §4.4: the loop
// reads until the socket would block, EOFs, or errors, then — after
// each successful read — checks for one complete frame, dispatches it,
// appends the reply, and transitions to Writing, breaking out even if a
// pipelined burst left more complete frames buffered (they are drained
// on the connection's next readiness cycle).
func (c *Connection) HandleRead(ks *store.Keyspace) error {
	var chunk [readChunk]byte
	for {
		n, err := unix.Read(c.FD, chunk[:])
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil
		}
		if err != nil {
			c.State = Closing
			return errors.Wrap(err, "conn: read")
		}
		if n == 0 {
			c.State = Closing
			return io.EOF
		}
		c.rbuf = append(c.rbuf, chunk[:n]...)

		done, err := c.tryProcessOneFrame(ks)
		if done {
			return err
		}
	}
}

// tryProcessOneFrame extracts and dispatches a single complete frame, if
// one is buffered. done reports whether the caller should stop reading:
// a frame was processed (→ Writing), or the buffered bytes are
// protocol-malformed — an oversize declared frame or a truncated/corrupt
// argument vector inside an otherwise well-sized frame — closing the
// connection with no reply, per spec.md §7. A bad argv never reaches
// the dispatcher: dispatch-level ERR replies are reserved for command
// and argument-value errors on an already-parsed request.
func (c *Connection) tryProcessOneFrame(ks *store.Keyspace) (done bool, err error) {
	payload, consumed, ok, extractErr := wire.ExtractFrame(c.rbuf)
	if extractErr != nil {
		c.State = Closing
		return true, errors.Wrap(extractErr, "conn: oversize frame")
	}
	if !ok {
		return false, nil
	}

	argv, parseErr := wire.ParseRequest(payload)
	if parseErr != nil {
		c.State = Closing
		return true, errors.Wrap(parseErr, "conn: malformed request")
	}

	var reply []byte
	dispatch.Execute(ks, argv, &reply)
	c.wbuf = wire.FrameReply(c.wbuf, reply)
	c.rbuf = append(c.rbuf[:0], c.rbuf[consumed:]...)
	c.State = Writing
	return true, nil
}

// HandleWrite advances the write buffer to the socket until it drains
// (→ Reading) or the socket would block. A write error transitions to
// Closing.
func (c *Connection) HandleWrite() error {
	for c.sent < len(c.wbuf) {
		n, err := unix.Write(c.FD, c.wbuf[c.sent:])
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil
		}
		if err != nil {
			c.State = Closing
			return errors.Wrap(err, "conn: write")
		}
		c.sent += n
	}
	c.wbuf = c.wbuf[:0]
	c.sent = 0
	c.State = Reading
	return nil
}

// Close releases the underlying file descriptor. Safe to call once.
func (c *Connection) Close() error {
	return unix.Close(c.FD)
}
