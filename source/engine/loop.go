// Package engine implements the single-threaded, readiness-based event
// loop: accepting connections and driving each Connection's state
// machine from epoll readiness events. See spec.md §4.6.
package engine

import (
	"errors"
	"io"

	"kvstored/source/conn"
	"kvstored/source/lifecycle"
	"kvstored/source/store"
	"kvstored/source/wire"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Loop owns the listening socket, the epoll instance, and the
// fd-indexed connection table.
type Loop struct {
	listenFD int
	epollFD  int
	timeout  int // milliseconds, passed to epoll_wait

	ks    *store.Keyspace
	bus   *lifecycle.Bus
	conns map[int]*conn.Connection
}

// New wires a Loop around an already-bound, non-blocking listenFD.
func New(listenFD int, pollTimeoutMS int, ks *store.Keyspace, bus *lifecycle.Bus) (*Loop, error) {
	epollFD, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "engine: epoll_create1")
	}
	l := &Loop{
		listenFD: listenFD,
		epollFD:  epollFD,
		timeout:  pollTimeoutMS,
		ks:       ks,
		bus:      bus,
		conns:    make(map[int]*conn.Connection),
	}
	if err := unix.EpollCtl(epollFD, unix.EPOLL_CTL_ADD, listenFD, &unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(listenFD),
	}); err != nil {
		unix.Close(epollFD)
		return nil, pkgerrors.Wrap(err, "engine: epoll_ctl add listener")
	}
	return l, nil
}

// Run blocks, servicing readiness events until stop is closed.
func (l *Loop) Run(stop <-chan struct{}) error {
	events := make([]unix.EpollEvent, 128)
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		n, err := unix.EpollWait(l.epollFD, events, l.timeout)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return pkgerrors.Wrap(err, "engine: epoll_wait")
		}
		if n == 0 {
			l.bus.Publish(lifecycle.Event{Type: lifecycle.Tick, Count: len(l.conns)})
			continue
		}

		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			if fd == l.listenFD {
				l.acceptAll()
				continue
			}
			l.service(fd, events[i].Events)
		}
	}
}

func (l *Loop) acceptAll() {
	for {
		fd, _, err := unix.Accept4(l.listenFD, unix.SOCK_NONBLOCK)
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return
		}
		if err != nil {
			return
		}
		c := conn.New(fd)
		if err := unix.EpollCtl(l.epollFD, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{
			Events: unix.EPOLLIN,
			Fd:     int32(fd),
		}); err != nil {
			c.Close()
			continue
		}
		l.conns[fd] = c
		l.bus.Publish(lifecycle.Event{Type: lifecycle.ConnAccepted, FD: fd})
	}
}

func (l *Loop) service(fd int, readiness uint32) {
	c, ok := l.conns[fd]
	if !ok {
		return
	}

	prevState := c.State
	var err error
	switch {
	case readiness&(unix.EPOLLERR|unix.EPOLLHUP) != 0:
		c.State = conn.Closing
	case c.WantWrite():
		err = c.HandleWrite()
	default:
		err = c.HandleRead(l.ks)
	}

	if err != nil && err != io.EOF {
		evType := lifecycle.IOError
		if errors.Is(err, wire.ErrOversizeFrame) ||
			errors.Is(err, wire.ErrTooManyArgs) ||
			errors.Is(err, wire.ErrTruncated) ||
			errors.Is(err, wire.ErrTrailingBytes) {
			evType = lifecycle.ProtocolError
		}
		l.bus.Publish(lifecycle.Event{Type: evType, FD: fd, Err: err})
	}

	if c.State == conn.Closing {
		unix.EpollCtl(l.epollFD, unix.EPOLL_CTL_DEL, fd, nil)
		c.Close()
		delete(l.conns, fd)
		l.bus.Publish(lifecycle.Event{Type: lifecycle.ConnClosed, FD: fd})
		return
	}

	if c.State != prevState {
		l.rearm(fd, c)
	}
}

func (l *Loop) rearm(fd int, c *conn.Connection) {
	var want uint32
	if c.WantRead() {
		want = unix.EPOLLIN
	} else if c.WantWrite() {
		want = unix.EPOLLOUT
	}
	unix.EpollCtl(l.epollFD, unix.EPOLL_CTL_MOD, fd, &unix.EpollEvent{
		Events: want,
		Fd:     int32(fd),
	})
}

// Close releases the epoll instance and the listening socket. Open
// connections are not drained; callers that need a graceful shutdown
// should stop Run first via the stop channel.
func (l *Loop) Close() error {
	unix.Close(l.listenFD)
	return unix.Close(l.epollFD)
}
