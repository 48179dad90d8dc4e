package transport

import (
	"context"
	"fmt"
)

// BroadcastService receives published containers on a subscriber socket.
type BroadcastService struct {
	*Service
	topics []string
}

// DialBroadcast opens a broadcast service subscribed to topics, or to every
// topic when none are given.
func DialBroadcast(ctx context.Context, d Dialer, ep Endpoint, topics []string, opts ...Option) (*BroadcastService, error) {
	o := buildOptions(opts)
	sock, err := d.DialSubscriber(ctx, ep.ConnString(), topics)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ep, err)
	}
	o.logger.Debug("broadcast service opened", "service", ep.Service, "endpoint", ep.ConnString(), "topics", topics)
	return &BroadcastService{Service: newService(ep, sock, o), topics: topics}, nil
}

// Topics returns the subscribed topics.
func (b *BroadcastService) Topics() []string { return b.topics }
