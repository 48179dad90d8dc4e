package harness

// Trace event types.
const (
	EventSent       = "sent"
	EventCommand    = "command"
	EventStatus     = "status"
	EventNotice     = "notice"
	EventTerminated = "terminated"
)

// TraceEvent is one observable step of the conversation.
type TraceEvent struct {
	Seq     int    `json:"seq"`
	Type    string `json:"type"`
	Command string `json:"command,omitempty"`
	Ticket  int32  `json:"ticket,omitempty"`
	State   string `json:"state,omitempty"`
	Path    string `json:"path,omitempty"`
	Value   any    `json:"value,omitempty"`
	Level   string `json:"level,omitempty"`
	Text    string `json:"text,omitempty"`
}

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace holds every event in the order it was observed.
	Trace []TraceEvent `json:"trace"`

	// Errors holds the failed assertions.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failed assertion.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) add(ev TraceEvent) {
	ev.Seq = len(r.Trace) + 1
	r.Trace = append(r.Trace, ev)
}
