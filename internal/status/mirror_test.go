package status

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mksync/internal/notify"
	"github.com/roach88/mksync/internal/wire"
)

type pathLog struct {
	calls []string
}

func (p *pathLog) Changed(source string, paths []string) {
	p.calls = append(p.calls, source+":"+strings.Join(paths, ","))
}

func full(c *wire.Container) *wire.Container {
	c.Type = wire.MTEmcstatFullUpdate
	return c
}

func incr(c *wire.Container) *wire.Container {
	c.Type = wire.MTEmcstatIncrementalUpdate
	return c
}

func assertGolden(t *testing.T, name string, paths []string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(strings.Join(paths, "\n")+"\n"))
}

func TestMirror_IncrementalBeforeFullIsDropped(t *testing.T) {
	m := New(nil)
	obs := &pathLog{}
	m.Attach(obs)

	u := m.Process(incr(&wire.Container{EmcStatusTask: &wire.EmcStatusTask{TaskMode: wire.Ptr[int32](2)}}))

	assert.Equal(t, KindDropped, u.Kind)
	assert.Empty(t, u.Changed)
	assert.False(t, m.IsValid(wire.TopicTask))
	assert.Nil(t, m.Task())
	assert.Empty(t, obs.calls, "a dropped update must not notify")

	_, ok := m.Lookup("task.task.mode")
	assert.False(t, ok)
}

func TestMirror_FieldLocalIncrementalMerge(t *testing.T) {
	m := New(nil)
	m.Process(full(&wire.Container{EmcStatusTask: &wire.EmcStatusTask{
		ReadLine:   wire.Ptr[int32](1),
		TotalLines: wire.Ptr[int32](2),
	}}))
	require.True(t, m.IsValid(wire.TopicTask))

	u := m.Process(incr(&wire.Container{EmcStatusTask: &wire.EmcStatusTask{ReadLine: wire.Ptr[int32](9)}}))

	assert.Equal(t, KindIncremental, u.Kind)
	assert.Equal(t, []string{"line.nr"}, u.Changed)
	assert.Equal(t, int32(9), m.Task().Line.Nr)
	assert.Equal(t, int32(2), m.Task().Line.Total, "fields absent from an incremental update keep their value")
}

func TestMirror_FullUpdateRebuilds(t *testing.T) {
	m := New(nil)
	m.Process(full(&wire.Container{EmcStatusTask: &wire.EmcStatusTask{File: wire.Ptr("a.ngc"), TotalLines: wire.Ptr[int32](40)}}))
	m.Process(full(&wire.Container{EmcStatusTask: &wire.EmcStatusTask{File: wire.Ptr("b.ngc")}}))

	assert.Equal(t, "b.ngc", m.Task().File)
	assert.Equal(t, int32(0), m.Task().Line.Total, "full update starts from scratch")
}

func TestMirror_ObserversOnlyOnChange(t *testing.T) {
	m := New(nil)
	obs := &pathLog{}
	m.Attach(obs)

	m.Process(full(&wire.Container{EmcStatusTask: &wire.EmcStatusTask{File: wire.Ptr("a.ngc")}}))
	m.Process(incr(&wire.Container{EmcStatusTask: &wire.EmcStatusTask{}}))

	assert.Equal(t, []string{"task:file"}, obs.calls)
}

func TestMirror_TopicScopedAttach(t *testing.T) {
	m := New(nil)
	motionOnly := &pathLog{}
	m.Attach(motionOnly, wire.TopicMotion)

	m.Process(full(&wire.Container{EmcStatusTask: &wire.EmcStatusTask{File: wire.Ptr("a.ngc")}}))
	m.Process(full(&wire.Container{EmcStatusMotion: &wire.EmcStatusMotion{Paused: wire.Ptr(true)}}))

	require.Len(t, motionOnly.calls, 1)
	assert.True(t, strings.HasPrefix(motionOnly.calls[0], "motion:"))

	m.Detach(motionOnly)
	m.Process(incr(&wire.Container{EmcStatusMotion: &wire.EmcStatusMotion{Paused: wire.Ptr(false)}}))
	assert.Len(t, motionOnly.calls, 1)
}

func TestMirror_ObserverFunc(t *testing.T) {
	m := New(nil)
	var got []string
	m.Attach(notify.ObserverFunc(func(_ string, paths []string) { got = append(got, paths...) }), wire.TopicIO)

	m.Process(full(&wire.Container{EmcStatusIO: &wire.EmcStatusIO{Mist: wire.Ptr(true)}}))
	assert.Equal(t, []string{"mist", "tool.table"}, got)
}

func TestMirror_FullUpdateReportsEmptyCollections(t *testing.T) {
	m := New(nil)

	u := m.Process(full(&wire.Container{EmcStatusInterp: &wire.EmcStatusInterp{}}))
	assert.Equal(t, []string{"gcodes", "mcodes"}, u.Changed)

	u = m.Process(full(&wire.Container{EmcStatusMotion: &wire.EmcStatusMotion{}}))
	assert.Equal(t, []string{"ain", "aout", "din", "dout", "limit", "axis"}, u.Changed)

	u = m.Process(full(&wire.Container{EmcStatusConfig: &wire.EmcStatusConfig{}}))
	assert.Equal(t, []string{"axis", "increments"}, u.Changed)
	assert.Empty(t, m.Config().Increments)
}

func TestMirror_ConfigFullPaths(t *testing.T) {
	m := New(nil)
	u := m.Process(full(&wire.Container{EmcStatusConfig: &wire.EmcStatusConfig{
		MinFeedOverride:     wire.Ptr(0.0),
		MaxFeedOverride:     wire.Ptr(1.2),
		DefaultSpindleSpeed: wire.Ptr(1000.0),
		MaxLinearVelocity:   wire.Ptr(50.0),
		Name:                wire.Ptr("mill"),
		LinearUnits:         wire.Ptr[int32](1),
		Axis: []*wire.EmcStatusConfigAxis{
			{Index: wire.Ptr[int32](0), MinPositionLimit: wire.Ptr(-100.0), MaxPositionLimit: wire.Ptr(100.0), HomeSequence: wire.Ptr[int32](0)},
			{Index: wire.Ptr[int32](1), AxisType: wire.Ptr[int32](1), MaxVelocity: wire.Ptr(30.0)},
		},
		Increments: wire.Ptr("1, 0.1,0.01"),
	}}))

	assertGolden(t, "config_full_paths", u.Changed)
	assert.Equal(t, []string{"1", "0.1", "0.01"}, m.Config().Increments)
}

func TestMirror_IOFullPaths(t *testing.T) {
	m := New(nil)
	u := m.Process(full(&wire.Container{EmcStatusIO: &wire.EmcStatusIO{
		Estop:         wire.Ptr(true),
		ToolInSpindle: wire.Ptr[int32](3),
		ToolOffset:    &wire.Position{Z: wire.Ptr(1.5)},
		ToolTable: []*wire.EmcToolData{
			{Index: wire.Ptr[int32](0), ID: wire.Ptr[int32](1), Diameter: wire.Ptr(6.0)},
			{Index: wire.Ptr[int32](1), ID: wire.Ptr[int32](3), Comment: wire.Ptr("drill"), Offset: &wire.Position{Z: wire.Ptr(-10.0)}},
		},
	}}))

	assertGolden(t, "io_full_paths", u.Changed)
}

func TestMirror_RangeMerge(t *testing.T) {
	m := New(nil)
	m.Process(full(&wire.Container{EmcStatusConfig: &wire.EmcStatusConfig{
		MinFeedOverride: wire.Ptr(0.1),
		MaxFeedOverride: wire.Ptr(1.5),
	}}))

	u := m.Process(incr(&wire.Container{EmcStatusConfig: &wire.EmcStatusConfig{MaxFeedOverride: wire.Ptr(2.0)}}))
	assert.Equal(t, []string{"override.feed.max"}, u.Changed)
	assert.Equal(t, 0.1, m.Config().Override.Feed.Min)
	assert.Equal(t, 2.0, m.Config().Override.Feed.Max)

	_, ok := m.Lookup("config.override.feed.default")
	assert.False(t, ok, "feed override has no default")
	v, ok := m.Lookup("config.override.spindle.default")
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestMirror_AxisMergeByIndex(t *testing.T) {
	m := New(nil)
	m.Process(full(&wire.Container{EmcStatusMotion: &wire.EmcStatusMotion{
		Axis: []*wire.EmcStatusMotionAxis{
			{Index: wire.Ptr[int32](0), Homed: wire.Ptr(false)},
			{Index: wire.Ptr[int32](2), Homed: wire.Ptr(false), Velocity: wire.Ptr(1.0)},
		},
	}}))

	u := m.Process(incr(&wire.Container{EmcStatusMotion: &wire.EmcStatusMotion{
		Axis: []*wire.EmcStatusMotionAxis{
			{Index: wire.Ptr[int32](2), Homed: wire.Ptr(true)},
			{Index: wire.Ptr[int32](7), Homed: wire.Ptr(true)},
		},
	}}))

	assert.Equal(t, []string{"axis.2.homed"}, u.Changed)
	require.Len(t, m.Motion().Axis, 2, "unknown axis indices never grow the collection")

	a, ok := m.Motion().AxisByIndex(2)
	require.True(t, ok)
	assert.True(t, a.Homed)
	assert.Equal(t, 1.0, a.Velocity)
	assert.False(t, m.Motion().AllHomed())

	v, ok := m.Lookup("motion.axis.2.homed")
	require.True(t, ok)
	assert.Equal(t, true, v)

	_, ok = m.Lookup("motion.axis.1.homed")
	assert.False(t, ok, "lookup is by index field, not position")
}

func TestMirror_AxisLimits(t *testing.T) {
	m := New(nil)
	m.Process(full(&wire.Container{EmcStatusMotion: &wire.EmcStatusMotion{
		Axis: []*wire.EmcStatusMotionAxis{{Index: wire.Ptr[int32](0)}},
	}}))

	u := m.Process(incr(&wire.Container{EmcStatusMotion: &wire.EmcStatusMotion{
		Axis: []*wire.EmcStatusMotionAxis{{Index: wire.Ptr[int32](0), MaxHardLimit: wire.Ptr(true)}},
	}}))
	assert.Equal(t, []string{"axis.0.limit.hard.max"}, u.Changed)

	v, ok := m.Lookup("motion.axis.0.limit.hard.max")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestMirror_PinsIndexedAndBounded(t *testing.T) {
	m := New(nil)
	m.Process(full(&wire.Container{EmcStatusMotion: &wire.EmcStatusMotion{
		Din: []*wire.DigitalIO{
			{Index: wire.Ptr[int32](0), Value: wire.Ptr(false)},
			{Index: wire.Ptr[int32](1), Value: wire.Ptr(true)},
		},
	}}))
	assert.Equal(t, []bool{false, true}, m.Motion().DIn)

	u := m.Process(incr(&wire.Container{EmcStatusMotion: &wire.EmcStatusMotion{
		Din: []*wire.DigitalIO{
			{Index: wire.Ptr[int32](0), Value: wire.Ptr(true)},
			{Index: wire.Ptr[int32](5), Value: wire.Ptr(true)},
		},
	}}))

	assert.Equal(t, []string{"din"}, u.Changed)
	assert.Equal(t, []bool{true, true}, m.Motion().DIn, "out-of-range pins are ignored")

	v, ok := m.Lookup("motion.din.1")
	require.True(t, ok)
	assert.Equal(t, true, v)
	_, ok = m.Lookup("motion.din.5")
	assert.False(t, ok)
}

func TestMirror_PositionMergePerAxis(t *testing.T) {
	m := New(nil)
	m.Process(full(&wire.Container{EmcStatusMotion: &wire.EmcStatusMotion{
		ActualPosition: &wire.Position{X: wire.Ptr(1.0), Y: wire.Ptr(2.0), Z: wire.Ptr(3.0)},
	}}))

	u := m.Process(incr(&wire.Container{EmcStatusMotion: &wire.EmcStatusMotion{
		ActualPosition: &wire.Position{Y: wire.Ptr(20.0)},
	}}))

	assert.Equal(t, []string{"position.actual"}, u.Changed)
	assert.Equal(t, Position{X: 1, Y: 20, Z: 3}, m.Motion().Position.Actual)

	v, ok := m.Lookup("motion.position.actual.y")
	require.True(t, ok)
	assert.Equal(t, 20.0, v)
	_, ok = m.Lookup("motion.position.actual.q")
	assert.False(t, ok)
}

func TestMirror_ToolTable(t *testing.T) {
	m := New(nil)
	m.Process(full(&wire.Container{EmcStatusIO: &wire.EmcStatusIO{
		ToolTable: []*wire.EmcToolData{
			{Index: wire.Ptr[int32](0), ID: wire.Ptr[int32](1)},
			{Index: wire.Ptr[int32](1), ID: wire.Ptr[int32](5)},
		},
	}}))

	u := m.Process(incr(&wire.Container{EmcStatusIO: &wire.EmcStatusIO{
		ToolInSpindle: wire.Ptr[int32](5),
		ToolTable:     []*wire.EmcToolData{{Index: wire.Ptr[int32](1), Diameter: wire.Ptr(3.175)}},
	}}))

	assert.Equal(t, []string{"tool.nr", "tool.table.1.diameter"}, u.Changed)
	tool, ok := m.IO().ToolByID(5)
	require.True(t, ok)
	assert.Equal(t, 3.175, tool.Diameter)

	v, ok := m.Lookup("status.io.tool.table.1.diameter")
	require.True(t, ok)
	assert.Equal(t, 3.175, v)
}

func TestMirror_InterpCodesReplacedOnlyWhenSent(t *testing.T) {
	m := New(nil)
	m.Process(full(&wire.Container{EmcStatusInterp: &wire.EmcStatusInterp{
		Gcodes: []*wire.GCode{{Index: wire.Ptr[int32](0), Value: wire.Ptr[int32](800)}},
	}}))

	u := m.Process(incr(&wire.Container{EmcStatusInterp: &wire.EmcStatusInterp{InterpState: wire.Ptr[int32](2)}}))
	assert.Equal(t, []string{"state"}, u.Changed)
	assert.Equal(t, []Code{{Index: 0, Value: 800}}, m.Interp().GCodes)
	assert.Equal(t, wire.InterpReading, m.Interp().InterpState())

	u = m.Process(incr(&wire.Container{EmcStatusInterp: &wire.EmcStatusInterp{
		Settings: []*wire.InterpSetting{{Index: wire.Ptr[int32](1), Value: wire.Ptr(250.0)}},
	}}))
	assert.Equal(t, []string{"settings.feed"}, u.Changed)
	assert.Equal(t, 250.0, m.Interp().Settings.Feed)
}

func TestMirror_Lookup(t *testing.T) {
	m := New(nil)
	m.Process(full(&wire.Container{EmcStatusTask: &wire.EmcStatusTask{
		TaskMode:  wire.Ptr(int32(wire.TaskModeMDI)),
		TaskState: wire.Ptr(int32(wire.TaskStateOn)),
	}}))

	tests := []struct {
		path string
		want any
		ok   bool
	}{
		{"task.task.mode", int32(wire.TaskModeMDI), true},
		{"status.task.task.state", int32(wire.TaskStateOn), true},
		{"task.line.nr", int32(0), true},
		{"task.task", TaskState{Mode: 3, State: 4}, true},
		{"task.nope", nil, false},
		{"task.task.mode.extra", nil, false},
		{"motion.paused", nil, false},
		{"bogus.path", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := m.Lookup(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, wire.TaskModeMDI, m.Task().Mode())
	assert.Equal(t, wire.TaskStateOn, m.Task().MachineState())
}

func TestMirror_IsValid(t *testing.T) {
	m := New(nil)
	assert.False(t, m.IsValid())

	m.Process(full(&wire.Container{EmcStatusTask: &wire.EmcStatusTask{}}))
	assert.True(t, m.IsValid(wire.TopicTask))
	assert.False(t, m.IsValid(wire.TopicTask, wire.TopicMotion))

	for _, c := range []*wire.Container{
		{EmcStatusConfig: &wire.EmcStatusConfig{}},
		{EmcStatusMotion: &wire.EmcStatusMotion{}},
		{EmcStatusIO: &wire.EmcStatusIO{}},
		{EmcStatusInterp: &wire.EmcStatusInterp{}},
	} {
		m.Process(full(c))
	}
	assert.True(t, m.IsValid())

	m.Reset()
	assert.False(t, m.IsValid(wire.TopicTask))
	assert.Nil(t, m.Task())
}

func TestMirror_IgnoresNonStatus(t *testing.T) {
	m := New(nil)
	u := m.Process(&wire.Container{Type: wire.MTPing})
	assert.Equal(t, KindIgnored, u.Kind)
}
