package transport

import "sync"

// Tickets hands out correlation tickets for one command channel.
//
// Tickets are strictly increasing and never reused for the lifetime of the
// counter. The first ticket is 1 so a zero ticket always means "not sent".
// A counter outlives the socket it was created for: when a command service
// is replaced the new service continues the same sequence.
//
// Thread-safety: Next may be called from any goroutine.
type Tickets struct {
	mu   sync.Mutex
	last int32
}

// NewTickets creates a counter whose first ticket is 1.
func NewTickets() *Tickets {
	return &Tickets{}
}

// NewTicketsAt creates a counter whose next ticket is last+1.
func NewTicketsAt(last int32) *Tickets {
	return &Tickets{last: last}
}

// Next returns the next ticket.
func (t *Tickets) Next() int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last++
	return t.last
}

// Last returns the most recently issued ticket, 0 if none.
func (t *Tickets) Last() int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}
