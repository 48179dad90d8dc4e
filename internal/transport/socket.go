package transport

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a closed service or socket.
var ErrClosed = errors.New("transport: closed")

// Socket is a message-oriented connection. Recv blocks until a multipart
// message arrives or the socket is closed.
type Socket interface {
	Send(frames ...[]byte) error
	Recv() ([][]byte, error)
	Close() error
}

// Dialer opens sockets. Broadcast channels use subscriber sockets; command
// channels use dealer sockets with a stable identity.
type Dialer interface {
	DialSubscriber(ctx context.Context, dsn string, topics []string) (Socket, error)
	DialDealer(ctx context.Context, dsn string, identity string) (Socket, error)
}
