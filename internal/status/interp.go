package status

import "github.com/roach88/mksync/internal/wire"

// Code is an active modal code slot.
type Code struct {
	Index int32 `json:"index"`
	Value int32 `json:"value"`
}

type Settings struct {
	Sequence float64 `json:"sequence"`
	Feed     float64 `json:"feed"`
	Velocity float64 `json:"velocity"`
}

// Interp mirrors the interpreter.
type Interp struct {
	Command  string   `json:"command"`
	State    int32    `json:"state"`
	Error    int32    `json:"error"`
	Units    int32    `json:"units"`
	GCodes   []Code   `json:"gcodes"`
	MCodes   []Code   `json:"mcodes"`
	Settings Settings `json:"settings"`
}

func newInterp() *Interp {
	return &Interp{GCodes: []Code{}, MCodes: []Code{}}
}

func codes(src []*wire.GCode) []Code {
	out := make([]Code, 0, len(src))
	for _, g := range src {
		out = append(out, Code{Index: deref(g.Index), Value: deref(g.Value)})
	}
	return out
}

// settingNames maps interpreter setting slots to their names.
var settingNames = map[int32]string{0: "sequence", 1: "feed", 2: "velocity"}

func (in *Interp) merge(src *wire.EmcStatusInterp) []string {
	c := &changes{}
	mergeValue(c, "command", &in.Command, src.Command)
	mergeValue(c, "state", &in.State, src.InterpState)
	mergeValue(c, "error", &in.Error, src.InterpreterErrcode)
	mergeValue(c, "units", &in.Units, src.ProgramUnits)

	// Code lists are replaced wholesale, and only when sent.
	if len(src.Gcodes) > 0 {
		in.GCodes = codes(src.Gcodes)
		c.add("gcodes")
	}
	if len(src.Mcodes) > 0 {
		in.MCodes = codes(src.Mcodes)
		c.add("mcodes")
	}

	for _, s := range src.Settings {
		name, ok := settingNames[deref(s.Index)]
		if !ok || s.Value == nil {
			continue
		}
		switch name {
		case "sequence":
			in.Settings.Sequence = *s.Value
		case "feed":
			in.Settings.Feed = *s.Value
		case "velocity":
			in.Settings.Velocity = *s.Value
		}
		c.add("settings." + name)
	}
	return c.paths
}

func (in *Interp) full(src *wire.EmcStatusInterp) []string {
	c := &changes{paths: in.merge(src)}
	c.ensure("gcodes", "mcodes")
	return c.paths
}

// InterpState returns the interpreter state.
func (in *Interp) InterpState() wire.InterpState { return wire.InterpState(in.State) }

func (in *Interp) lookup(p []string) (any, bool) {
	if len(p) == 0 {
		return *in, true
	}
	rest := p[1:]
	switch p[0] {
	case "gcodes":
		return lookupSlice(in.GCodes, rest)
	case "mcodes":
		return lookupSlice(in.MCodes, rest)
	case "settings":
		return lookupFields(rest, in.Settings, map[string]any{
			"sequence": in.Settings.Sequence, "feed": in.Settings.Feed, "velocity": in.Settings.Velocity,
		})
	}
	return lookupFields(p, *in, map[string]any{
		"command": in.Command,
		"state":   in.State,
		"error":   in.Error,
		"units":   in.Units,
	})
}
