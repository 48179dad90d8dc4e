package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mksync/internal/notify"
	"github.com/roach88/mksync/internal/wire"
)

func bitPin(name string, handle int32, v bool) *wire.Pin {
	return &wire.Pin{Name: wire.Ptr(name), Handle: wire.Ptr(handle), Type: wire.Ptr(int32(wire.HalBit)), Halbit: wire.Ptr(v)}
}

func s32Pin(name string, handle int32, v int32) *wire.Pin {
	return &wire.Pin{Name: wire.Ptr(name), Handle: wire.Ptr(handle), Type: wire.Ptr(int32(wire.HalS32)), Hals32: wire.Ptr(v)}
}

func toolChangeFull(change, changed bool, number int32) *wire.Container {
	return &wire.Container{
		Type: wire.MTHalrcompFullUpdate,
		Comp: []*wire.Component{{
			Name:   wire.Ptr(ToolChangeComponent),
			CompID: wire.Ptr[int32](7),
			Pin: []*wire.Pin{
				bitPin(ToolChangeComponent+".change", 11, change),
				bitPin(ToolChangeComponent+".changed", 12, changed),
				s32Pin(ToolChangeComponent+".number", 13, number),
			},
		}},
	}
}

func pinUpdate(pins ...*wire.Pin) *wire.Container {
	return &wire.Container{Type: wire.MTHalrcompIncrementalUpdate, Pin: pins}
}

func TestMirror_FullUpdate(t *testing.T) {
	m := New(nil)
	var got []string
	m.Attach(notify.ObserverFunc(func(_ string, paths []string) { got = append(got, paths...) }))

	paths := m.Process(toolChangeFull(false, false, 0))

	want := []string{"fc_manualtoolchange.change", "fc_manualtoolchange.changed", "fc_manualtoolchange.number"}
	assert.Equal(t, want, paths)
	assert.Equal(t, want, got)
	assert.Equal(t, []string{ToolChangeComponent}, m.Components())

	c, ok := m.Component(ToolChangeComponent)
	require.True(t, ok)
	assert.Equal(t, int32(7), c.ID)
	require.Len(t, c.Pins(), 3)
}

func TestMirror_IncrementalByHandle(t *testing.T) {
	m := New(nil)
	m.Process(toolChangeFull(false, false, 0))

	paths := m.Process(pinUpdate(
		&wire.Pin{Handle: wire.Ptr[int32](11), Halbit: wire.Ptr(true)},
		&wire.Pin{Handle: wire.Ptr[int32](13), Hals32: wire.Ptr[int32](4)},
		&wire.Pin{Handle: wire.Ptr[int32](99), Halbit: wire.Ptr(true)},
	))

	assert.Equal(t, []string{"fc_manualtoolchange.change", "fc_manualtoolchange.number"}, paths)

	v, ok := m.Lookup("fc_manualtoolchange.number")
	require.True(t, ok)
	assert.Equal(t, int32(4), v)

	_, ok = m.Lookup("fc_manualtoolchange.missing")
	assert.False(t, ok)
	_, ok = m.Lookup("nocomponent")
	assert.False(t, ok)
}

func TestMirror_ValueOfWrongTypeIgnored(t *testing.T) {
	m := New(nil)
	m.Process(toolChangeFull(false, false, 0))

	paths := m.Process(pinUpdate(&wire.Pin{Handle: wire.Ptr[int32](11), Hals32: wire.Ptr[int32](1)}))
	assert.Empty(t, paths)
}

func TestMirror_ErrorAndReset(t *testing.T) {
	m := New(nil)
	m.Process(toolChangeFull(false, false, 0))

	paths := m.Process(&wire.Container{Type: wire.MTHalrcompError, Note: []string{"component fc_manualtoolchange does not exist"}})
	assert.Empty(t, paths)

	m.Reset()
	assert.Empty(t, m.Components())
	_, ok := m.ToolChange()
	assert.False(t, ok)
}

func TestToolChange_Handshake(t *testing.T) {
	m := New(nil)
	m.Process(toolChangeFull(false, false, 0))

	tc, ok := m.ToolChange()
	require.True(t, ok)
	assert.False(t, tc.Requested())
	assert.False(t, tc.Done())

	m.Process(pinUpdate(
		&wire.Pin{Handle: wire.Ptr[int32](11), Halbit: wire.Ptr(true)},
		&wire.Pin{Handle: wire.Ptr[int32](13), Hals32: wire.Ptr[int32](3)},
	))
	assert.True(t, tc.Requested())
	assert.Equal(t, int32(3), tc.ToolNumber())

	cmd, err := tc.Acknowledge(true)
	require.NoError(t, err)
	assert.Equal(t, wire.MTHalrcompSet, cmd.Type())
	assert.False(t, cmd.ExpectsReply())

	m.Process(pinUpdate(
		&wire.Pin{Handle: wire.Ptr[int32](11), Halbit: wire.Ptr(false)},
		&wire.Pin{Handle: wire.Ptr[int32](12), Halbit: wire.Ptr(true)},
	))
	assert.False(t, tc.Requested())
	assert.True(t, tc.Done())
}

func TestToolChange_AcknowledgeWithoutPin(t *testing.T) {
	m := New(nil)
	m.Process(&wire.Container{
		Type: wire.MTHalrcompFullUpdate,
		Comp: []*wire.Component{{Name: wire.Ptr(ToolChangeComponent)}},
	})
	tc, ok := m.ToolChange()
	require.True(t, ok)

	_, err := tc.Acknowledge(true)
	assert.Error(t, err)
}
