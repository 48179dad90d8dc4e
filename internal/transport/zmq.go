package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/go-zeromq/zmq4"
)

// ZMQDialer opens ZeroMQ SUB and DEALER sockets.
type ZMQDialer struct {
	// Retry is the interval between connection attempts while the remote is
	// not yet listening. Zero uses the library default.
	Retry time.Duration
}

var _ Dialer = ZMQDialer{}

func (d ZMQDialer) options() []zmq4.Option {
	opts := []zmq4.Option{zmq4.WithAutomaticReconnect(true)}
	if d.Retry > 0 {
		opts = append(opts, zmq4.WithDialerRetry(d.Retry))
	}
	return opts
}

// DialSubscriber connects a SUB socket and subscribes to topics. With no
// topics it subscribes to everything.
func (d ZMQDialer) DialSubscriber(ctx context.Context, dsn string, topics []string) (Socket, error) {
	s := zmq4.NewSub(ctx, d.options()...)
	if err := s.Dial(dsn); err != nil {
		s.Close()
		return nil, fmt.Errorf("dial subscriber %s: %w", dsn, err)
	}
	if len(topics) == 0 {
		topics = []string{""}
	}
	for _, topic := range topics {
		if err := s.SetOption(zmq4.OptionSubscribe, topic); err != nil {
			s.Close()
			return nil, fmt.Errorf("subscribe %q on %s: %w", topic, dsn, err)
		}
	}
	return zmqSocket{s}, nil
}

// DialDealer connects a DEALER socket announcing identity to the router.
func (d ZMQDialer) DialDealer(ctx context.Context, dsn string, identity string) (Socket, error) {
	opts := append(d.options(), zmq4.WithID(zmq4.SocketIdentity(identity)))
	s := zmq4.NewDealer(ctx, opts...)
	if err := s.Dial(dsn); err != nil {
		s.Close()
		return nil, fmt.Errorf("dial dealer %s: %w", dsn, err)
	}
	return zmqSocket{s}, nil
}

type zmqSocket struct {
	s zmq4.Socket
}

func (z zmqSocket) Send(frames ...[]byte) error {
	return z.s.Send(zmq4.NewMsgFrom(frames...))
}

func (z zmqSocket) Recv() ([][]byte, error) {
	msg, err := z.s.Recv()
	if err != nil {
		return nil, err
	}
	return msg.Frames, nil
}

func (z zmqSocket) Close() error {
	return z.s.Close()
}
