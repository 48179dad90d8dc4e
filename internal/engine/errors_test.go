package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "correlation miss",
			err:  newCorrelationMiss("command", 42),
			want: "CORRELATION_MISS: reply for unknown ticket (service=command, ticket=42)",
		},
		{
			name: "channel fatal",
			err:  newChannelFatal("status", []string{"bad topic"}),
			want: "CHANNEL_FATAL: channel error: [bad topic] (service=status)",
		},
		{
			name: "channel fatal without notes",
			err:  newChannelFatal("error", nil),
			want: "CHANNEL_FATAL: channel error (service=error)",
		},
		{
			name: "decode failed",
			err:  newDecodeFailed("halrcomp", errors.New("truncated")),
			want: "DECODE_FAILED: discarding malformed container (service=halrcomp): truncated",
		},
		{
			name: "bare",
			err:  &Error{Code: ErrCodeStaleIncremental, Message: "dropped"},
			want: "STALE_INCREMENTAL: dropped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Predicates(t *testing.T) {
	miss := newCorrelationMiss("command", 1)
	wrapped := fmt.Errorf("processing: %w", miss)

	assert.True(t, IsCorrelationMiss(miss))
	assert.True(t, IsCorrelationMiss(wrapped))
	assert.False(t, IsChannelFatal(wrapped))
	assert.False(t, IsCorrelationMiss(errors.New("plain")))
	assert.False(t, IsCorrelationMiss(nil))

	assert.True(t, IsChannelFatal(newChannelFatal("status", nil)))
	assert.True(t, IsDecodeFailed(newDecodeFailed("status", nil)))
	assert.True(t, IsStaleIncremental(newStaleIncremental("motion")))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("varint overflow")
	err := newDecodeFailed("status", cause)

	assert.ErrorIs(t, err, cause)
}
