package transport

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTickets_StartAtOne(t *testing.T) {
	tk := NewTickets()
	assert.Equal(t, int32(0), tk.Last())
	assert.Equal(t, int32(1), tk.Next())
	assert.Equal(t, int32(2), tk.Next())
	assert.Equal(t, int32(2), tk.Last())
}

func TestTickets_NewTicketsAt(t *testing.T) {
	tk := NewTicketsAt(41)
	assert.Equal(t, int32(42), tk.Next())
}

func TestTickets_ThreadSafe(t *testing.T) {
	tk := NewTickets()
	const goroutines = 50
	const callsPerGoroutine = 200

	var wg sync.WaitGroup
	out := make(chan int32, goroutines*callsPerGoroutine)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prev := int32(0)
			for j := 0; j < callsPerGoroutine; j++ {
				n := tk.Next()
				assert.Greater(t, n, prev, "tickets seen by one caller must increase")
				prev = n
				out <- n
			}
		}()
	}
	wg.Wait()
	close(out)

	seen := make(map[int32]bool)
	for n := range out {
		assert.False(t, seen[n], "ticket %d issued twice", n)
		seen[n] = true
	}
	assert.Len(t, seen, goroutines*callsPerGoroutine)
	assert.Equal(t, int32(goroutines*callsPerGoroutine), tk.Last())
}
