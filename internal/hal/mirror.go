// Package hal mirrors remote HAL components published on the halrcomp
// channel.
//
// A full update describes whole components with all their pins. An
// incremental update carries pins only, identified by handle. Changes are
// published as "component.pin" paths with the component name as source.
package hal

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/mksync/internal/notify"
	"github.com/roach88/mksync/internal/wire"
)

// Pin is one HAL pin. The name is the last segment of the HAL name.
type Pin struct {
	Name   string       `json:"name"`
	Handle int32        `json:"handle"`
	Type   wire.HalType `json:"type"`
	Dir    int32        `json:"dir"`

	bit   bool
	s32   int32
	u32   int32
	float float64
}

func newPin(src *wire.Pin) *Pin {
	name := deref(src.Name)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	p := &Pin{
		Name:   name,
		Handle: deref(src.Handle),
		Type:   wire.HalType(deref(src.Type)),
		Dir:    deref(src.Dir),
	}
	p.set(src)
	return p
}

// set copies the value field matching the pin type, when present.
func (p *Pin) set(src *wire.Pin) bool {
	switch p.Type {
	case wire.HalBit:
		return assign(&p.bit, src.Halbit)
	case wire.HalS32:
		return assign(&p.s32, src.Hals32)
	case wire.HalU32:
		return assign(&p.u32, src.Halu32)
	case wire.HalFloat:
		return assign(&p.float, src.Halfloat)
	}
	return false
}

// Value returns the pin value as bool, int32 or float64.
func (p *Pin) Value() any {
	switch p.Type {
	case wire.HalBit:
		return p.bit
	case wire.HalS32:
		return p.s32
	case wire.HalU32:
		return p.u32
	case wire.HalFloat:
		return p.float
	}
	return nil
}

// Component is one remote HAL component.
type Component struct {
	Name string `json:"name"`
	ID   int32  `json:"id"`

	pins     []*Pin
	byHandle map[int32]*Pin
	byName   map[string]*Pin
}

func newComponent(src *wire.Component) *Component {
	c := &Component{
		Name:     deref(src.Name),
		ID:       deref(src.CompID),
		byHandle: make(map[int32]*Pin, len(src.Pin)),
		byName:   make(map[string]*Pin, len(src.Pin)),
	}
	for _, sp := range src.Pin {
		p := newPin(sp)
		c.pins = append(c.pins, p)
		c.byHandle[p.Handle] = p
		c.byName[p.Name] = p
	}
	return c
}

// Pin looks a pin up by short name.
func (c *Component) Pin(name string) (*Pin, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// Pins returns the pins in the order the controller listed them.
func (c *Component) Pins() []*Pin { return slices.Clone(c.pins) }

// Bit returns the value of a bit pin, or def when there is no such pin.
func (c *Component) Bit(name string, def bool) bool {
	if p, ok := c.byName[name]; ok && p.Type == wire.HalBit {
		return p.bit
	}
	return def
}

// S32 returns the value of a signed pin, or def when there is no such pin.
func (c *Component) S32(name string, def int32) int32 {
	if p, ok := c.byName[name]; ok && p.Type == wire.HalS32 {
		return p.s32
	}
	return def
}

// Observer receives changed "component.pin" paths. The source is the
// component name.
type Observer = notify.Observer[[]string]

// Mirror holds every component received on the halrcomp channel.
//
// Thread-safety: owned by the pump goroutine.
type Mirror struct {
	logger *slog.Logger
	bus    notify.Bus[[]string]
	comps  []*Component
}

func New(logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{logger: logger.With("component", "hal")}
}

// Process applies one halrcomp container and returns the changed paths.
func (m *Mirror) Process(c *wire.Container) []string {
	switch msg := wire.Classify(c).(type) {
	case wire.HalError:
		for _, note := range msg.Notes {
			if strings.Contains(note, "does not exist") {
				m.logger.Info("component not loaded", "note", note)
				continue
			}
			m.logger.Error("halrcomp error", "note", note)
		}
		return nil

	case wire.HalUpdate:
		if msg.Full {
			return m.full(c.Comp)
		}
		return m.incremental(c.Pin)
	}
	m.logger.Debug("ignoring container on halrcomp channel", "type", c.Type)
	return nil
}

func (m *Mirror) full(src []*wire.Component) []string {
	var all []string
	for _, sc := range src {
		comp := newComponent(sc)
		if i := slices.IndexFunc(m.comps, func(c *Component) bool { return c.Name == comp.Name }); i >= 0 {
			m.comps[i] = comp
		} else {
			m.comps = append(m.comps, comp)
		}
		m.logger.Info("component bound", "name", comp.Name, "pins", len(comp.pins))

		paths := make([]string, 0, len(comp.pins))
		for _, p := range comp.pins {
			paths = append(paths, comp.Name+"."+p.Name)
		}
		all = append(all, paths...)
		if len(paths) > 0 {
			m.bus.Notify(comp.Name, paths)
		}
	}
	return all
}

func (m *Mirror) incremental(src []*wire.Pin) []string {
	changed := make(map[*Component][]string)
	var all []string
	for _, sp := range src {
		handle := deref(sp.Handle)
		comp, pin := m.byHandle(handle)
		if pin == nil {
			m.logger.Debug("update for unknown pin", "handle", handle)
			continue
		}
		if pin.set(sp) {
			path := comp.Name + "." + pin.Name
			changed[comp] = append(changed[comp], path)
			all = append(all, path)
		}
	}
	for _, comp := range m.comps {
		if paths := changed[comp]; len(paths) > 0 {
			m.bus.Notify(comp.Name, paths)
		}
	}
	return all
}

func (m *Mirror) byHandle(handle int32) (*Component, *Pin) {
	for _, c := range m.comps {
		if p, ok := c.byHandle[handle]; ok {
			return c, p
		}
	}
	return nil, nil
}

// Component returns a bound component by name.
func (m *Mirror) Component(name string) (*Component, bool) {
	for _, c := range m.comps {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Components lists the bound component names.
func (m *Mirror) Components() []string {
	names := make([]string, len(m.comps))
	for i, c := range m.comps {
		names[i] = c.Name
	}
	return names
}

// Lookup resolves "component.pin" to the pin value.
func (m *Mirror) Lookup(path string) (any, bool) {
	name, pin, ok := strings.Cut(path, ".")
	if !ok {
		return nil, false
	}
	c, ok := m.Component(name)
	if !ok {
		return nil, false
	}
	p, ok := c.Pin(pin)
	if !ok {
		return nil, false
	}
	return p.Value(), true
}

// Reset forgets every component.
func (m *Mirror) Reset() { m.comps = nil }

// Attach registers obs for the given components, or for all of them.
func (m *Mirror) Attach(obs Observer, components ...string) { m.bus.Attach(obs, components...) }

func (m *Mirror) Detach(obs Observer) { m.bus.Detach(obs) }

func assign[T any](dst *T, src *T) bool {
	if src == nil {
		return false
	}
	*dst = *src
	return true
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
