package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/mksync/internal/wire"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s", ev.Seq, ev.Type, ev.Command)
			if ev.Ticket != 0 {
				fmt.Fprintf(&buf, "#%d", ev.Ticket)
			}
			if ev.State != "" {
				fmt.Fprintf(&buf, " %s", ev.State)
			}
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// sentTypes lists the command types in the order they were sent.
func sentTypes(trace []TraceEvent) []string {
	var out []string
	for _, ev := range trace {
		if ev.Type == EventSent {
			out = append(out, ev.Command)
		}
	}
	return out
}

// assertSentOrder checks the commands were sent in the given relative
// order. Other commands may be sent in between.
func assertSentOrder(trace []TraceEvent, a Assertion) error {
	sent := sentTypes(trace)
	next := 0
	for _, typ := range sent {
		if next < len(a.Commands) && typ == a.Commands[next] {
			next++
		}
	}
	if next == len(a.Commands) {
		return nil
	}
	return &AssertionError{
		Type:     AssertSentOrder,
		Expected: fmt.Sprintf("commands sent in order: %v", a.Commands),
		Actual:   fmt.Sprintf("sent %v, missing %s", sent, a.Commands[next]),
		Trace:    trace,
	}
}

func assertSentCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, typ := range sentTypes(trace) {
		if typ == a.Command {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertSentCount,
			Expected: fmt.Sprintf("%d sends of %s", a.Count, a.Command),
			Actual:   fmt.Sprintf("%d sends", count),
			Trace:    trace,
		}
	}
	return nil
}

func assertCommandState(h *Harness, a Assertion) error {
	for _, cmd := range h.tracked {
		if cmd.Ticket() != a.Ticket {
			continue
		}
		if got := cmd.State().String(); got != a.State {
			return &AssertionError{
				Type:     AssertCommandState,
				Expected: fmt.Sprintf("ticket %d %s", a.Ticket, a.State),
				Actual:   fmt.Sprintf("ticket %d %s", a.Ticket, got),
				Trace:    h.result.Trace,
			}
		}
		return nil
	}
	return &AssertionError{
		Type:     AssertCommandState,
		Expected: fmt.Sprintf("ticket %d %s", a.Ticket, a.State),
		Actual:   "no command with that ticket",
		Trace:    h.result.Trace,
	}
}

func assertSequenceDone(h *Harness) error {
	switch {
	case h.sequence == nil:
		return &AssertionError{Type: AssertSequenceDone, Expected: "a finished sequence", Actual: "no sequence started"}
	case h.sequence.IsActive():
		return &AssertionError{
			Type:     AssertSequenceDone,
			Expected: "sequence finished",
			Actual:   fmt.Sprintf("%d batches remaining, %d commands pending", h.sequence.Remaining(), len(h.sequence.Pending())),
			Trace:    h.result.Trace,
		}
	}
	return nil
}

func assertStatus(h *Harness, a Assertion) error {
	got, ok := h.engine.Status().Lookup(a.Path)
	if !ok {
		return &AssertionError{Type: AssertStatus, Expected: fmt.Sprintf("%s = %v", a.Path, a.Value), Actual: "path not mirrored"}
	}
	if !valuesEqual(got, a.Value) {
		return &AssertionError{
			Type:     AssertStatus,
			Expected: fmt.Sprintf("%s = %v", a.Path, a.Value),
			Actual:   fmt.Sprintf("%s = %v", a.Path, got),
		}
	}
	return nil
}

func assertNoticeCount(h *Harness, a Assertion) error {
	count := 0
	for _, n := range h.notices {
		if n.Level == wire.NoticeLevel(a.Level) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertNoticeCount,
			Expected: fmt.Sprintf("%d %s notices", a.Count, a.Level),
			Actual:   fmt.Sprintf("%d notices", count),
			Trace:    h.result.Trace,
		}
	}
	return nil
}

// valuesEqual compares a mirrored value with a YAML-decoded one. Numbers
// compare by value whatever their Go type.
func valuesEqual(actual, expected any) bool {
	if a, ok := toFloat(actual); ok {
		e, ok := toFloat(expected)
		return ok && a == e
	}
	return reflect.DeepEqual(actual, expected)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// EvaluateAssertions evaluates all assertions against the harness state
// after the flow. It returns one message per failed assertion.
func EvaluateAssertions(h *Harness, assertions []Assertion) []string {
	var errors []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertSentOrder:
			err = assertSentOrder(h.result.Trace, a)
		case AssertSentCount:
			err = assertSentCount(h.result.Trace, a)
		case AssertCommandState:
			err = assertCommandState(h, a)
		case AssertSequenceDone:
			err = assertSequenceDone(h)
		case AssertStatus:
			err = assertStatus(h, a)
		case AssertNoticeCount:
			err = assertNoticeCount(h, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
