package status

import (
	"strconv"

	"github.com/roach88/mksync/internal/wire"
)

// Range is a min/max pair, optionally with a default.
type Range[T float64 | bool] struct {
	Min     T  `json:"min"`
	Max     T  `json:"max"`
	Default *T `json:"default,omitempty"`
}

func withDefault[T float64 | bool]() Range[T] {
	var zero T
	return Range[T]{Default: &zero}
}

func (r Range[T]) lookup(p []string) (any, bool) {
	if len(p) == 0 {
		return r, true
	}
	switch p[0] {
	case "min":
		return leaf(r.Min, p[1:])
	case "max":
		return leaf(r.Max, p[1:])
	case "default":
		if r.Default == nil {
			return nil, false
		}
		return leaf(*r.Default, p[1:])
	}
	return nil, false
}

// AxisLetters names the components of a Position in order.
const AxisLetters = "xyzabcuvw"

// Position is a 9-axis coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
	U float64 `json:"u"`
	V float64 `json:"v"`
	W float64 `json:"w"`
}

func (p *Position) axes() [9]*float64 {
	return [9]*float64{&p.X, &p.Y, &p.Z, &p.A, &p.B, &p.C, &p.U, &p.V, &p.W}
}

// Axis returns the component for an axis letter.
func (p Position) Axis(letter byte) (float64, bool) {
	for i := 0; i < len(AxisLetters); i++ {
		if AxisLetters[i] == letter {
			return *p.axes()[i], true
		}
	}
	return 0, false
}

// merge copies every axis present in src.
func (p *Position) merge(src *wire.Position) {
	dst := p.axes()
	for i, v := range src.Axes() {
		if v != nil {
			*dst[i] = *v
		}
	}
}

func (p Position) lookup(path []string) (any, bool) {
	if len(path) == 0 {
		return p, true
	}
	if len(path[0]) != 1 {
		return nil, false
	}
	v, ok := p.Axis(path[0][0])
	if !ok {
		return nil, false
	}
	return leaf(v, path[1:])
}

// node is implemented by every part of the accessor tree.
type node interface {
	lookup(path []string) (any, bool)
}

func leaf(v any, rest []string) (any, bool) {
	if len(rest) > 0 {
		return nil, false
	}
	return v, true
}

func index(s string) (int, bool) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// lookupSlice resolves an element of a positional array.
func lookupSlice[T any](s []T, p []string) (any, bool) {
	if len(p) == 0 {
		return s, true
	}
	i, ok := index(p[0])
	if !ok || i >= len(s) {
		return nil, false
	}
	return leaf(s[i], p[1:])
}

// indexed is a record keyed by its own index field rather than position.
type indexed interface {
	node
	key() int32
}

func lookupIndexed[T indexed](s []T, p []string) (any, bool) {
	if len(p) == 0 {
		return s, true
	}
	i, ok := index(p[0])
	if !ok {
		return nil, false
	}
	for _, e := range s {
		if e.key() == int32(i) {
			return e.lookup(p[1:])
		}
	}
	return nil, false
}

// lookupGroup resolves a fixed set of named sub-nodes.
func lookupGroup(p []string, children map[string]node, self any) (any, bool) {
	if len(p) == 0 {
		return self, true
	}
	n, ok := children[p[0]]
	if !ok {
		return nil, false
	}
	return n.lookup(p[1:])
}

// lookupFields resolves a fixed set of named leaves.
func lookupFields(p []string, self any, fields map[string]any) (any, bool) {
	if len(p) == 0 {
		return self, true
	}
	v, ok := fields[p[0]]
	if !ok {
		return nil, false
	}
	return leaf(v, p[1:])
}

func itoa(i int32) string {
	return strconv.Itoa(int(i))
}
