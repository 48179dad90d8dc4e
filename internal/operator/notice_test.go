package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mksync/internal/notify"
	"github.com/roach88/mksync/internal/wire"
)

func TestLog_Process(t *testing.T) {
	tests := []struct {
		name   string
		typ    wire.ContainerType
		level  wire.NoticeLevel
		origin wire.NoticeOrigin
	}{
		{"operator error", wire.MTEmcOperatorError, wire.NoticeError, wire.OriginOperator},
		{"operator text", wire.MTEmcOperatorText, wire.NoticeText, wire.OriginOperator},
		{"operator display", wire.MTEmcOperatorDisplay, wire.NoticeDisplay, wire.OriginOperator},
		{"nml error", wire.MTEmcNmlError, wire.NoticeError, wire.OriginNML},
		{"nml text", wire.MTEmcNmlText, wire.NoticeText, wire.OriginNML},
		{"nml display", wire.MTEmcNmlDisplay, wire.NoticeDisplay, wire.OriginNML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(nil, 0)
			n, ok := l.Process(&wire.Container{Type: tt.typ, Note: []string{"joint 0 following error"}})
			require.True(t, ok)
			assert.Equal(t, tt.level, n.Level)
			assert.Equal(t, tt.origin, n.Origin)
			assert.Equal(t, []string{"joint 0 following error"}, n.Notes)
			assert.Equal(t, tt.level == wire.NoticeError, n.IsError())
		})
	}
}

func TestLog_UnknownContainer(t *testing.T) {
	l := New(nil, 0)
	var got []Notice
	l.Attach(notify.ObserverFunc(func(_ string, n Notice) { got = append(got, n) }))

	_, ok := l.Process(&wire.Container{Type: wire.MTEmcstatFullUpdate})
	assert.False(t, ok)
	assert.Empty(t, got)
	assert.Empty(t, l.Recent())
}

func TestLog_LevelFilter(t *testing.T) {
	l := New(nil, 0)
	var errs []Notice
	obs := notify.ObserverFunc(func(source string, n Notice) {
		assert.Equal(t, "error", source)
		errs = append(errs, n)
	})
	l.Attach(obs, wire.NoticeError)

	l.Process(&wire.Container{Type: wire.MTEmcOperatorText, Note: []string{"hello"}})
	l.Process(&wire.Container{Type: wire.MTEmcNmlError, Note: []string{"limit switch"}})

	require.Len(t, errs, 1)
	assert.Equal(t, []string{"limit switch"}, errs[0].Notes)

	l.Detach(obs)
	l.Process(&wire.Container{Type: wire.MTEmcNmlError, Note: []string{"again"}})
	assert.Len(t, errs, 1)
}

func TestLog_HistoryBounded(t *testing.T) {
	l := New(nil, 2)
	for _, note := range []string{"a", "b", "c"} {
		l.Process(&wire.Container{Type: wire.MTEmcOperatorText, Note: []string{note}})
	}

	recent := l.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, []string{"b"}, recent[0].Notes)
	assert.Equal(t, []string{"c"}, recent[1].Notes)
}
