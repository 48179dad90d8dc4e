package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/mksync/internal/transport"
)

// FakeSocket is an in-memory transport.Socket.
//
// Deliver hands a frame to the service's reader goroutine and returns only
// once the reader has queued it and is waiting for the next one, so a
// following Poll is guaranteed to see it.
//
// Thread-safety: all methods are safe for concurrent use.
type FakeSocket struct {
	DSN      string
	Topics   []string
	Identity string

	in   chan [][]byte
	done chan struct{}

	mu        sync.Mutex
	cond      *sync.Cond
	entered   int
	delivered int
	closed    bool
	sent      [][][]byte
	sendErr   error
}

func newFakeSocket(dsn string) *FakeSocket {
	s := &FakeSocket{
		DSN:  dsn,
		in:   make(chan [][]byte),
		done: make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

var _ transport.Socket = (*FakeSocket)(nil)

func (s *FakeSocket) Send(frames ...[]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return transport.ErrClosed
	}
	if s.sendErr != nil {
		return s.sendErr
	}
	cp := make([][]byte, len(frames))
	for i, f := range frames {
		cp[i] = append([]byte(nil), f...)
	}
	s.sent = append(s.sent, cp)
	return nil
}

func (s *FakeSocket) Recv() ([][]byte, error) {
	s.mu.Lock()
	s.entered++
	s.cond.Broadcast()
	s.mu.Unlock()

	select {
	case f := <-s.in:
		return f, nil
	case <-s.done:
		return nil, transport.ErrClosed
	}
}

func (s *FakeSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)
	s.cond.Broadcast()
	return nil
}

// Deliver simulates an inbound multipart message.
func (s *FakeSocket) Deliver(frames ...[]byte) {
	select {
	case s.in <- frames:
	case <-s.done:
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.delivered++
	for !s.closed && s.entered <= s.delivered {
		s.cond.Wait()
	}
}

// FailSends makes every following Send return err.
func (s *FakeSocket) FailSends(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendErr = err
}

// Sent returns the payload frame of every message sent so far.
func (s *FakeSocket) Sent() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, 0, len(s.sent))
	for _, frames := range s.sent {
		out = append(out, frames[len(frames)-1])
	}
	return out
}

func (s *FakeSocket) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// FakeDialer hands out FakeSockets and remembers them.
type FakeDialer struct {
	mu      sync.Mutex
	sockets []*FakeSocket
	fail    map[string]error
}

var _ transport.Dialer = (*FakeDialer)(nil)

func NewFakeDialer() *FakeDialer {
	return &FakeDialer{fail: make(map[string]error)}
}

// FailDSN makes dials to dsn fail with err. A nil err clears the failure.
func (d *FakeDialer) FailDSN(dsn string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.fail, dsn)
		return
	}
	d.fail[dsn] = err
}

func (d *FakeDialer) dial(dsn string) (*FakeSocket, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail[dsn]; err != nil {
		return nil, fmt.Errorf("fake dial %s: %w", dsn, err)
	}
	s := newFakeSocket(dsn)
	d.sockets = append(d.sockets, s)
	return s, nil
}

func (d *FakeDialer) DialSubscriber(_ context.Context, dsn string, topics []string) (transport.Socket, error) {
	s, err := d.dial(dsn)
	if err != nil {
		return nil, err
	}
	s.Topics = topics
	return s, nil
}

func (d *FakeDialer) DialDealer(_ context.Context, dsn string, identity string) (transport.Socket, error) {
	s, err := d.dial(dsn)
	if err != nil {
		return nil, err
	}
	s.Identity = identity
	return s, nil
}

// Sockets returns every socket dialled so far, in dial order.
func (d *FakeDialer) Sockets() []*FakeSocket {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*FakeSocket(nil), d.sockets...)
}

// Socket returns the most recent socket dialled for dsn, nil if none.
func (d *FakeDialer) Socket(dsn string) *FakeSocket {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.sockets) - 1; i >= 0; i-- {
		if d.sockets[i].DSN == dsn {
			return d.sockets[i]
		}
	}
	return nil
}
