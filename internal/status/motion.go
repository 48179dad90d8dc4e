package status

import "github.com/roach88/mksync/internal/wire"

type AxisLimits struct {
	Soft Range[bool] `json:"soft"`
	Hard Range[bool] `json:"hard"`
}

// Axis is the live motion state of one axis.
type Axis struct {
	Index          int32      `json:"index"`
	Enabled        bool       `json:"enabled"`
	Fault          bool       `json:"fault"`
	FerrorCurrent  float64    `json:"ferror_current"`
	FerrorHighmark float64    `json:"ferror_highmark"`
	Homed          bool       `json:"homed"`
	Homing         bool       `json:"homing"`
	InPosition     bool       `json:"inpos"`
	Input          float64    `json:"input"`
	Output         float64    `json:"output"`
	OverrideLimits bool       `json:"override_limits"`
	Velocity       float64    `json:"velocity"`
	Limit          AxisLimits `json:"limit"`
}

func (a *Axis) key() int32 { return a.Index }

func (a *Axis) merge(c *changes, src *wire.EmcStatusMotionAxis) {
	mergeValue(c, "enabled", &a.Enabled, src.Enabled)
	mergeValue(c, "fault", &a.Fault, src.Fault)
	mergeValue(c, "ferror_current", &a.FerrorCurrent, src.FerrorCurrent)
	mergeValue(c, "ferror_highmark", &a.FerrorHighmark, src.FerrorHighmark)
	mergeValue(c, "homed", &a.Homed, src.Homed)
	mergeValue(c, "homing", &a.Homing, src.Homing)
	mergeValue(c, "inpos", &a.InPosition, src.Inpos)
	mergeValue(c, "input", &a.Input, src.Input)
	mergeValue(c, "output", &a.Output, src.Output)
	mergeValue(c, "override_limits", &a.OverrideLimits, src.OverrideLimits)
	mergeValue(c, "velocity", &a.Velocity, src.Velocity)
	mergeRange(c, "limit.soft", &a.Limit.Soft, src.MinSoftLimit, src.MaxSoftLimit, nil)
	mergeRange(c, "limit.hard", &a.Limit.Hard, src.MinHardLimit, src.MaxHardLimit, nil)
}

func (a *Axis) lookup(p []string) (any, bool) {
	if len(p) == 0 {
		return *a, true
	}
	rest := p[1:]
	switch p[0] {
	case "limit":
		return lookupGroup(rest, map[string]node{"soft": a.Limit.Soft, "hard": a.Limit.Hard}, a.Limit)
	}
	return lookupFields(p, *a, map[string]any{
		"index":           a.Index,
		"enabled":         a.Enabled,
		"fault":           a.Fault,
		"ferror_current":  a.FerrorCurrent,
		"ferror_highmark": a.FerrorHighmark,
		"homed":           a.Homed,
		"homing":          a.Homing,
		"inpos":           a.InPosition,
		"input":           a.Input,
		"output":          a.Output,
		"override_limits": a.OverrideLimits,
		"velocity":        a.Velocity,
	})
}

type Positions struct {
	Actual      Position `json:"actual"`
	Current     Position `json:"current"`
	Joint       Position `json:"joint"`
	JointActual Position `json:"joint_actual"`
	DTG         Position `json:"dtg"`
}

type Offsets struct {
	G5x Position `json:"g5x"`
	G92 Position `json:"g92"`
}

type Feed struct {
	Hold     bool    `json:"hold"`
	Override bool    `json:"override"`
	Rate     float64 `json:"rate"`
	Rapid    float64 `json:"rapid"`
}

type Probe struct {
	Active   bool     `json:"active"`
	Tripped  bool     `json:"tripped"`
	Value    int32    `json:"value"`
	Position Position `json:"position"`
}

type Spindle struct {
	Brake      bool    `json:"brake"`
	Direction  int32   `json:"dir"`
	Enabled    bool    `json:"enabled"`
	Increasing int32   `json:"increasing"`
	Override   bool    `json:"override"`
	Speed      float64 `json:"speed"`
	Rate       float64 `json:"rate"`
}

type Queue struct {
	Active  int32 `json:"active"`
	Current int32 `json:"current"`
	Full    bool  `json:"full"`
}

type Limits struct {
	Velocity     float64 `json:"velocity"`
	Acceleration float64 `json:"acceleration"`
}

// Motion mirrors the motion controller state.
type Motion struct {
	AIn   []float64 `json:"ain"`
	AOut  []float64 `json:"aout"`
	DIn   []bool    `json:"din"`
	DOut  []bool    `json:"dout"`
	Limit []int32   `json:"limit"`
	Axis  []*Axis   `json:"axis"`

	ID              int32   `json:"id"`
	InPosition      bool    `json:"inpos"`
	Paused          bool    `json:"paused"`
	State           int32   `json:"state"`
	RotationXY      float64 `json:"rotation_xy"`
	Line            int32   `json:"line"`
	Type            int32   `json:"type"`
	Mode            int32   `json:"mode"`
	G5xIndex        int32   `json:"g5x_index"`
	BlockDelete     bool    `json:"block_delete"`
	CurrentLine     int32   `json:"current_line"`
	CurrentVelocity float64 `json:"current_vel"`
	DelayLeft       float64 `json:"delay_left"`
	DistanceLeft    float64 `json:"distance_left"`
	Enabled         bool    `json:"enabled"`
	AdaptiveFeed    bool    `json:"adaptive_feed"`

	Position Positions `json:"position"`
	Offset   Offsets   `json:"offset"`
	Feed     Feed      `json:"feed"`
	Probe    Probe     `json:"probe"`
	Spindle  Spindle   `json:"spindle"`
	Queue    Queue     `json:"queue"`
	Max      Limits    `json:"max"`
}

func newMotion(src *wire.EmcStatusMotion) *Motion {
	m := &Motion{
		AIn:   make([]float64, len(src.Ain)),
		AOut:  make([]float64, len(src.Aout)),
		DIn:   make([]bool, len(src.Din)),
		DOut:  make([]bool, len(src.Dout)),
		Limit: make([]int32, len(src.Limit)),
		Axis:  []*Axis{},
	}
	for _, a := range src.Axis {
		m.Axis = append(m.Axis, &Axis{Index: deref(a.Index)})
	}
	return m
}

func analog(p *wire.AnalogIO) (*int32, *float64) { return p.Index, p.Value }
func digital(p *wire.DigitalIO) (*int32, *bool)  { return p.Index, p.Value }
func limit(p *wire.LimitIO) (*int32, *int32)     { return p.Index, p.Value }

func (m *Motion) merge(src *wire.EmcStatusMotion) []string {
	c := &changes{}
	mergePins(c, "ain", m.AIn, src.Ain, analog)
	mergePins(c, "aout", m.AOut, src.Aout, analog)
	mergePins(c, "din", m.DIn, src.Din, digital)
	mergePins(c, "dout", m.DOut, src.Dout, digital)
	mergePins(c, "limit", m.Limit, src.Limit, limit)

	for _, a := range m.Axis {
		for _, in := range src.Axis {
			if deref(in.Index) == a.Index {
				sub := c.sub("axis." + itoa(a.Index))
				a.merge(sub, in)
				c.absorb(sub)
			}
		}
	}

	mergeValue(c, "id", &m.ID, src.ID)
	mergeValue(c, "inpos", &m.InPosition, src.Inpos)
	mergeValue(c, "paused", &m.Paused, src.Paused)
	mergeValue(c, "state", &m.State, src.State)
	mergeValue(c, "rotation_xy", &m.RotationXY, src.RotationXY)
	mergeValue(c, "line", &m.Line, src.MotionLine)
	mergeValue(c, "type", &m.Type, src.MotionType)
	mergeValue(c, "mode", &m.Mode, src.MotionMode)
	mergeValue(c, "g5x_index", &m.G5xIndex, src.G5xIndex)
	mergeValue(c, "block_delete", &m.BlockDelete, src.BlockDelete)
	mergeValue(c, "current_line", &m.CurrentLine, src.CurrentLine)
	mergeValue(c, "current_vel", &m.CurrentVelocity, src.CurrentVel)
	mergeValue(c, "delay_left", &m.DelayLeft, src.DelayLeft)
	mergeValue(c, "distance_left", &m.DistanceLeft, src.DistanceToGo)
	mergeValue(c, "enabled", &m.Enabled, src.Enabled)
	mergeValue(c, "adaptive_feed", &m.AdaptiveFeed, src.AdaptiveFeedEnabled)

	mergePosition(c, "position.actual", &m.Position.Actual, src.ActualPosition)
	mergePosition(c, "position.current", &m.Position.Current, src.Position)
	mergePosition(c, "position.joint", &m.Position.Joint, src.JointPosition)
	mergePosition(c, "position.joint_actual", &m.Position.JointActual, src.JointActualPosition)
	mergePosition(c, "position.dtg", &m.Position.DTG, src.Dtg)
	mergePosition(c, "offset.g5x", &m.Offset.G5x, src.G5xOffset)
	mergePosition(c, "offset.g92", &m.Offset.G92, src.G92Offset)

	mergeValue(c, "feed.hold", &m.Feed.Hold, src.FeedHoldEnabled)
	mergeValue(c, "feed.override", &m.Feed.Override, src.FeedOverrideEnabled)
	mergeValue(c, "feed.rate", &m.Feed.Rate, src.Feedrate)
	mergeValue(c, "feed.rapid", &m.Feed.Rapid, src.Rapidrate)
	mergeValue(c, "probe.active", &m.Probe.Active, src.Probing)
	mergeValue(c, "probe.tripped", &m.Probe.Tripped, src.ProbeTripped)
	mergeValue(c, "probe.value", &m.Probe.Value, src.ProbeVal)
	mergePosition(c, "probe.position", &m.Probe.Position, src.ProbedPosition)
	mergeValue(c, "spindle.brake", &m.Spindle.Brake, src.SpindleBrake)
	mergeValue(c, "spindle.dir", &m.Spindle.Direction, src.SpindleDirection)
	mergeValue(c, "spindle.enabled", &m.Spindle.Enabled, src.SpindleEnabled)
	mergeValue(c, "spindle.increasing", &m.Spindle.Increasing, src.SpindleIncreasing)
	mergeValue(c, "spindle.override", &m.Spindle.Override, src.SpindleOverrideEnabled)
	mergeValue(c, "spindle.speed", &m.Spindle.Speed, src.SpindleSpeed)
	mergeValue(c, "spindle.rate", &m.Spindle.Rate, src.Spindlerate)
	mergeValue(c, "queue.active", &m.Queue.Active, src.ActiveQueue)
	mergeValue(c, "queue.current", &m.Queue.Current, src.Queue)
	mergeValue(c, "queue.full", &m.Queue.Full, src.QueueFull)
	mergeValue(c, "max.velocity", &m.Max.Velocity, src.MaxVelocity)
	mergeValue(c, "max.acceleration", &m.Max.Acceleration, src.MaxAcceleration)
	return c.paths
}

func (m *Motion) full(src *wire.EmcStatusMotion) []string {
	c := &changes{paths: m.merge(src)}
	c.ensure("ain", "aout", "din", "dout", "limit", "axis")
	return c.paths
}

// AxisByIndex returns the motion state of one axis.
func (m *Motion) AxisByIndex(i int32) (*Axis, bool) {
	for _, a := range m.Axis {
		if a.Index == i {
			return a, true
		}
	}
	return nil, false
}

// AllHomed reports whether every known axis is homed.
func (m *Motion) AllHomed() bool {
	for _, a := range m.Axis {
		if !a.Homed {
			return false
		}
	}
	return len(m.Axis) > 0
}

func (m *Motion) lookup(p []string) (any, bool) {
	if len(p) == 0 {
		return *m, true
	}
	rest := p[1:]
	switch p[0] {
	case "ain":
		return lookupSlice(m.AIn, rest)
	case "aout":
		return lookupSlice(m.AOut, rest)
	case "din":
		return lookupSlice(m.DIn, rest)
	case "dout":
		return lookupSlice(m.DOut, rest)
	case "limit":
		return lookupSlice(m.Limit, rest)
	case "axis":
		return lookupIndexed(m.Axis, rest)
	case "position":
		return lookupGroup(rest, map[string]node{
			"actual":       m.Position.Actual,
			"current":      m.Position.Current,
			"joint":        m.Position.Joint,
			"joint_actual": m.Position.JointActual,
			"dtg":          m.Position.DTG,
		}, m.Position)
	case "offset":
		return lookupGroup(rest, map[string]node{"g5x": m.Offset.G5x, "g92": m.Offset.G92}, m.Offset)
	case "feed":
		return lookupFields(rest, m.Feed, map[string]any{
			"hold": m.Feed.Hold, "override": m.Feed.Override, "rate": m.Feed.Rate, "rapid": m.Feed.Rapid,
		})
	case "probe":
		if len(rest) > 0 && rest[0] == "position" {
			return m.Probe.Position.lookup(rest[1:])
		}
		return lookupFields(rest, m.Probe, map[string]any{
			"active": m.Probe.Active, "tripped": m.Probe.Tripped, "value": m.Probe.Value,
		})
	case "spindle":
		return lookupFields(rest, m.Spindle, map[string]any{
			"brake":      m.Spindle.Brake,
			"dir":        m.Spindle.Direction,
			"enabled":    m.Spindle.Enabled,
			"increasing": m.Spindle.Increasing,
			"override":   m.Spindle.Override,
			"speed":      m.Spindle.Speed,
			"rate":       m.Spindle.Rate,
		})
	case "queue":
		return lookupFields(rest, m.Queue, map[string]any{
			"active": m.Queue.Active, "current": m.Queue.Current, "full": m.Queue.Full,
		})
	case "max":
		return lookupFields(rest, m.Max, map[string]any{
			"velocity": m.Max.Velocity, "acceleration": m.Max.Acceleration,
		})
	}
	return lookupFields(p, *m, map[string]any{
		"id":            m.ID,
		"inpos":         m.InPosition,
		"paused":        m.Paused,
		"state":         m.State,
		"rotation_xy":   m.RotationXY,
		"line":          m.Line,
		"type":          m.Type,
		"mode":          m.Mode,
		"g5x_index":     m.G5xIndex,
		"block_delete":  m.BlockDelete,
		"current_line":  m.CurrentLine,
		"current_vel":   m.CurrentVelocity,
		"delay_left":    m.DelayLeft,
		"distance_left": m.DistanceLeft,
		"enabled":       m.Enabled,
		"adaptive_feed": m.AdaptiveFeed,
	})
}
