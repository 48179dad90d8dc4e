package transport

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CommandService is a request channel: serialized commands go out, replies
// referencing their ticket come back asynchronously.
type CommandService struct {
	*Service
	identity string
	tickets  *Tickets
}

// DialCommand opens a command service with a fresh process-unique identity.
func DialCommand(ctx context.Context, d Dialer, ep Endpoint, opts ...Option) (*CommandService, error) {
	o := buildOptions(opts)
	if o.tickets == nil {
		o.tickets = NewTickets()
	}
	id, err := uuid.NewUUID()
	if err != nil {
		return nil, fmt.Errorf("identity for %s: %w", ep, err)
	}
	identity := id.String()

	sock, err := d.DialDealer(ctx, ep.ConnString(), identity)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ep, err)
	}
	o.logger.Debug("command service opened", "service", ep.Service, "endpoint", ep.ConnString(), "identity", identity)
	return &CommandService{
		Service:  newService(ep, sock, o),
		identity: identity,
		tickets:  o.tickets,
	}, nil
}

// Identity is the socket identity announced to the remote router.
func (c *CommandService) Identity() string { return c.identity }

// NewTicket allocates the next correlation ticket.
func (c *CommandService) NewTicket() int32 { return c.tickets.Next() }

// Tickets exposes the counter so a replacement service can continue it.
func (c *CommandService) Tickets() *Tickets { return c.tickets }

// Send transmits one serialized container.
func (c *CommandService) Send(b []byte) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := c.socket.Send(b); err != nil {
		return fmt.Errorf("send on %s: %w", c.endpoint, err)
	}
	return nil
}
