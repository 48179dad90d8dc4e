package status

import (
	"slices"

	"github.com/roach88/mksync/internal/wire"
)

// changes collects the dotted paths touched by one merge.
type changes struct {
	prefix string
	paths  []string
}

func (c *changes) add(name string) {
	c.paths = append(c.paths, c.prefix+name)
}

// sub returns a collector whose paths are nested under name.
func (c *changes) sub(name string) *changes {
	return &changes{prefix: c.prefix + name + "."}
}

func (c *changes) absorb(o *changes) {
	c.paths = append(c.paths, o.paths...)
}

// ensure appends names not already recorded. Full updates use it so
// collections are reported even when they arrived empty.
func (c *changes) ensure(names ...string) {
	for _, n := range names {
		if !slices.Contains(c.paths, c.prefix+n) {
			c.add(n)
		}
	}
}

func mergeValue[T any](c *changes, name string, dst *T, src *T) {
	if src == nil {
		return
	}
	*dst = *src
	c.add(name)
}

func mergeRange[T float64 | bool](c *changes, name string, r *Range[T], min, max, def *T) {
	if min != nil {
		r.Min = *min
		c.add(name + ".min")
	}
	if max != nil {
		r.Max = *max
		c.add(name + ".max")
	}
	if def != nil && r.Default != nil {
		*r.Default = *def
		c.add(name + ".default")
	}
}

func mergePosition(c *changes, name string, dst *Position, src *wire.Position) {
	if src == nil {
		return
	}
	dst.merge(src)
	c.add(name)
}

// mergePins patches a positional array in place. Out-of-range indices are
// ignored; arrays are sized only by full updates.
func mergePins[W any, T any](c *changes, name string, dst []T, src []W, get func(W) (*int32, *T)) {
	if len(src) == 0 {
		return
	}
	for _, p := range src {
		i, v := get(p)
		if i == nil || v == nil || *i < 0 || int(*i) >= len(dst) {
			continue
		}
		dst[*i] = *v
	}
	c.add(name)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
