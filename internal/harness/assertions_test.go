package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sentTrace(types ...string) []TraceEvent {
	var trace []TraceEvent
	for i, typ := range types {
		trace = append(trace, TraceEvent{Seq: i + 1, Type: EventSent, Command: typ, Ticket: int32(i + 1)})
	}
	return trace
}

func TestAssertSentOrder(t *testing.T) {
	trace := sentTrace("A", "B", "C", "B")

	tests := []struct {
		name     string
		commands []string
		ok       bool
	}{
		{"exact", []string{"A", "B", "C"}, true},
		{"with gaps", []string{"A", "C"}, true},
		{"repeated", []string{"B", "B"}, true},
		{"wrong order", []string{"C", "A"}, false},
		{"missing", []string{"A", "D"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertSentOrder(trace, Assertion{Type: AssertSentOrder, Commands: tt.commands})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestAssertSentCount(t *testing.T) {
	trace := sentTrace("A", "B", "A")

	assert.NoError(t, assertSentCount(trace, Assertion{Command: "A", Count: 2}))
	assert.NoError(t, assertSentCount(trace, Assertion{Command: "Z", Count: 0}))

	err := assertSentCount(trace, Assertion{Command: "B", Count: 2})
	var ae *AssertionError
	assert.ErrorAs(t, err, &ae)
	assert.Equal(t, "1 sends", ae.Actual)
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		name     string
		actual   any
		expected any
		want     bool
	}{
		{"int32 vs int", int32(3), 3, true},
		{"int32 vs float", int32(3), 3.0, true},
		{"float vs int", 1.5, 1, false},
		{"float vs float", 1.5, 1.5, true},
		{"bool", true, true, true},
		{"bool mismatch", true, false, false},
		{"string", "mdi", "mdi", true},
		{"number vs string", int32(3), "3", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valuesEqual(tt.actual, tt.expected))
		})
	}
}

func TestAssertionError_Error(t *testing.T) {
	err := &AssertionError{
		Type:     AssertSentCount,
		Expected: "2 sends of A",
		Actual:   "1 sends",
		Trace: []TraceEvent{
			{Seq: 1, Type: EventSent, Command: "A", Ticket: 1},
			{Seq: 2, Type: EventCommand, Command: "A", Ticket: 1, State: "completed"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: sent_count")
	assert.Contains(t, msg, "Expected: 2 sends of A")
	assert.Contains(t, msg, "[1] sent A#1")
	assert.Contains(t, msg, "[2] command A#1 completed")
}

func TestEvaluateAssertions_UnknownType(t *testing.T) {
	h := &Harness{result: NewResult()}
	errs := EvaluateAssertions(h, []Assertion{{Type: "vibes"}})
	assert.Equal(t, []string{`assertion[0]: unknown assertion type "vibes"`}, errs)
}
