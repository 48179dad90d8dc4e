package status

import (
	"strings"

	"github.com/roach88/mksync/internal/wire"
)

// AxisConfig is the static configuration of one axis.
type AxisConfig struct {
	Index           int32          `json:"index"`
	Limit           Range[float64] `json:"limit"`
	Ferror          Range[float64] `json:"ferror"`
	Type            int32          `json:"type"`
	MaxVelocity     float64        `json:"max_velocity"`
	MaxAcceleration float64        `json:"max_acceleration"`
	HomeSequence    int32          `json:"home_sequence"`
}

func (a *AxisConfig) key() int32 { return a.Index }

func (a *AxisConfig) merge(c *changes, src *wire.EmcStatusConfigAxis) {
	mergeRange(c, "limit", &a.Limit, src.MinPositionLimit, src.MaxPositionLimit, nil)
	mergeRange(c, "ferror", &a.Ferror, src.MinFerror, src.MaxFerror, nil)
	mergeValue(c, "type", &a.Type, src.AxisType)
	mergeValue(c, "max_velocity", &a.MaxVelocity, src.MaxVelocity)
	mergeValue(c, "max_acceleration", &a.MaxAcceleration, src.MaxAcceleration)
	mergeValue(c, "home_sequence", &a.HomeSequence, src.HomeSequence)
}

func (a *AxisConfig) lookup(p []string) (any, bool) {
	if len(p) == 0 {
		return *a, true
	}
	switch p[0] {
	case "index":
		return leaf(a.Index, p[1:])
	case "limit":
		return a.Limit.lookup(p[1:])
	case "ferror":
		return a.Ferror.lookup(p[1:])
	case "type":
		return leaf(a.Type, p[1:])
	case "max_velocity":
		return leaf(a.MaxVelocity, p[1:])
	case "max_acceleration":
		return leaf(a.MaxAcceleration, p[1:])
	case "home_sequence":
		return leaf(a.HomeSequence, p[1:])
	}
	return nil, false
}

type Overrides struct {
	Feed    Range[float64] `json:"feed"`
	Spindle Range[float64] `json:"spindle"`
}

type Velocities struct {
	Linear  Range[float64] `json:"linear"`
	Angular Range[float64] `json:"angular"`
}

type Units struct {
	Time    int32 `json:"time"`
	Angular int32 `json:"angular"`
	Linear  int32 `json:"linear"`
}

// Config mirrors the controller's machine configuration.
type Config struct {
	Override   Overrides     `json:"override"`
	Velocity   Velocities    `json:"velocity"`
	Name       string        `json:"name"`
	Units      Units         `json:"units"`
	Axis       []*AxisConfig `json:"axis"`
	AxisMask   int32         `json:"axis_mask"`
	Increments []string      `json:"increments"`
	RemotePath string        `json:"remote_path"`
}

func newConfig(src *wire.EmcStatusConfig) *Config {
	cfg := &Config{
		Override: Overrides{Spindle: withDefault[float64]()},
		Velocity: Velocities{Linear: withDefault[float64](), Angular: withDefault[float64]()},
	}
	for _, a := range src.Axis {
		cfg.Axis = append(cfg.Axis, &AxisConfig{Index: deref(a.Index)})
	}
	cfg.Increments = []string{}
	return cfg
}

func (cfg *Config) merge(src *wire.EmcStatusConfig) []string {
	c := &changes{}
	mergeRange(c, "override.feed", &cfg.Override.Feed, src.MinFeedOverride, src.MaxFeedOverride, nil)
	mergeRange(c, "override.spindle", &cfg.Override.Spindle, src.MinSpindleOverride, src.MaxSpindleOverride, src.DefaultSpindleSpeed)
	mergeRange(c, "velocity.linear", &cfg.Velocity.Linear, src.MinLinearVelocity, src.MaxLinearVelocity, src.DefaultLinearVelocity)
	mergeRange(c, "velocity.angular", &cfg.Velocity.Angular, src.MinAngularVelocity, src.MaxAngularVelocity, src.DefaultAngularVelocity)
	mergeValue(c, "name", &cfg.Name, src.Name)
	mergeValue(c, "axis_mask", &cfg.AxisMask, src.AxisMask)
	mergeValue(c, "remote_path", &cfg.RemotePath, src.RemotePath)
	mergeValue(c, "units.time", &cfg.Units.Time, src.TimeUnits)
	mergeValue(c, "units.angular", &cfg.Units.Angular, src.AngularUnits)
	mergeValue(c, "units.linear", &cfg.Units.Linear, src.LinearUnits)

	for _, a := range cfg.Axis {
		for _, in := range src.Axis {
			if deref(in.Index) == a.Index {
				sub := c.sub("axis." + itoa(a.Index))
				a.merge(sub, in)
				c.absorb(sub)
			}
		}
	}

	if src.Increments != nil {
		cfg.Increments = splitIncrements(*src.Increments)
		c.add("increments")
	}
	return c.paths
}

func (cfg *Config) full(src *wire.EmcStatusConfig) []string {
	c := &changes{paths: cfg.merge(src)}
	c.ensure("axis", "increments")
	return c.paths
}

func splitIncrements(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// AxisByIndex returns the configuration of one axis.
func (cfg *Config) AxisByIndex(i int32) (*AxisConfig, bool) {
	for _, a := range cfg.Axis {
		if a.Index == i {
			return a, true
		}
	}
	return nil, false
}

func (cfg *Config) lookup(p []string) (any, bool) {
	if len(p) == 0 {
		return *cfg, true
	}
	rest := p[1:]
	switch p[0] {
	case "override":
		return lookupGroup(rest, map[string]node{"feed": cfg.Override.Feed, "spindle": cfg.Override.Spindle}, cfg.Override)
	case "velocity":
		return lookupGroup(rest, map[string]node{"linear": cfg.Velocity.Linear, "angular": cfg.Velocity.Angular}, cfg.Velocity)
	case "name":
		return leaf(cfg.Name, rest)
	case "units":
		return lookupFields(rest, cfg.Units, map[string]any{
			"time": cfg.Units.Time, "angular": cfg.Units.Angular, "linear": cfg.Units.Linear,
		})
	case "axis":
		return lookupIndexed(cfg.Axis, rest)
	case "axis_mask":
		return leaf(cfg.AxisMask, rest)
	case "increments":
		return lookupSlice(cfg.Increments, rest)
	case "remote_path":
		return leaf(cfg.RemotePath, rest)
	}
	return nil, false
}
