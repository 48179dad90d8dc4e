package command

// Element is one entry of a sequence batch: a *Command or a *WaitUntil.
type Element interface {
	element()
}

func (*Command) element()   {}
func (*WaitUntil) element() {}

// Batch is a group of elements issued together. Commands in a batch run in
// parallel; the next batch starts only after all of them completed.
type Batch []Element

// WaitUntil gates the next batch on an external predicate. The predicate
// must be side-effect free; it may be evaluated many times.
type WaitUntil struct {
	label string
	cond  func() bool
}

// Wait builds a wait condition.
func Wait(label string, cond func() bool) *WaitUntil {
	return &WaitUntil{label: label, cond: cond}
}

// Satisfied evaluates the predicate. A nil predicate is always satisfied.
func (w *WaitUntil) Satisfied() bool {
	return w.cond == nil || w.cond()
}

func (w *WaitUntil) String() string {
	return "wait(" + w.label + ")"
}

// Batches is a convenience for building a sequence from plain commands, one
// batch per argument group.
func Batches(groups ...[]*Command) []Batch {
	out := make([]Batch, 0, len(groups))
	for _, g := range groups {
		b := make(Batch, 0, len(g))
		for _, c := range g {
			b = append(b, c)
		}
		out = append(out, b)
	}
	return out
}
