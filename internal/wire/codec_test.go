package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestCodec_CommandRoundTrip(t *testing.T) {
	in := &Container{
		Type:       MTEmcTaskPlanExecute,
		Ticket:     Ptr[int32](42),
		InterpName: Ptr("execute"),
		EmcCommandParams: &EmcCommandParams{
			Command: Ptr("G0 X10"),
		},
	}

	b, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCodec_PresenceSurvivesZeroValues(t *testing.T) {
	in := &Container{
		Type: MTEmcstatIncrementalUpdate,
		EmcStatusMotion: &EmcStatusMotion{
			Feedrate: Ptr(0.0),
			Paused:   Ptr(false),
		},
	}

	b, err := Encode(in)
	require.NoError(t, err)
	out, err := Decode(b)
	require.NoError(t, err)

	require.NotNil(t, out.EmcStatusMotion)
	require.NotNil(t, out.EmcStatusMotion.Feedrate, "explicit zero must stay present")
	assert.Equal(t, 0.0, *out.EmcStatusMotion.Feedrate)
	require.NotNil(t, out.EmcStatusMotion.Paused)
	assert.False(t, *out.EmcStatusMotion.Paused)
	assert.Nil(t, out.EmcStatusMotion.CurrentVel, "absent field must stay absent")
}

func TestCodec_EmptySubMessageIsPresent(t *testing.T) {
	b, err := Encode(&Container{Type: MTEmcstatFullUpdate, EmcStatusTask: &EmcStatusTask{}})
	require.NoError(t, err)

	out, err := Decode(b)
	require.NoError(t, err)
	assert.NotNil(t, out.EmcStatusTask)
	assert.Nil(t, out.EmcStatusIO)
}

func TestCodec_RepeatedMessagesKeepOrder(t *testing.T) {
	in := &Container{
		Type: MTEmcstatFullUpdate,
		EmcStatusIO: &EmcStatusIO{
			ToolTable: []*EmcToolData{
				{Index: Ptr[int32](0), ID: Ptr[int32](7), Comment: Ptr("drill")},
				{Index: Ptr[int32](1), ID: Ptr[int32](3), Offset: &Position{Z: Ptr(-12.5)}},
			},
		},
	}

	b, err := Encode(in)
	require.NoError(t, err)
	out, err := Decode(b)
	require.NoError(t, err)

	require.Len(t, out.EmcStatusIO.ToolTable, 2)
	assert.Equal(t, int32(7), *out.EmcStatusIO.ToolTable[0].ID)
	assert.Equal(t, -12.5, *out.EmcStatusIO.ToolTable[1].Offset.Z)
	assert.Nil(t, out.EmcStatusIO.ToolTable[1].Offset.X)
}

func TestCodec_NegativeInt32(t *testing.T) {
	b, err := Encode(&Container{Type: MTEmccmdCompleted, ReplyTicket: Ptr[int32](-5)})
	require.NoError(t, err)

	out, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, int32(-5), *out.ReplyTicket)
}

func TestDecode_SkipsUnknownFields(t *testing.T) {
	b, err := Encode(&Container{Type: MTPing})
	require.NoError(t, err)

	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendString(b, "from a newer schema")
	b = protowire.AppendTag(b, 98, protowire.VarintType)
	b = protowire.AppendVarint(b, 12345)

	out, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, MTPing, out.Type)
}

func TestDecode_Truncated(t *testing.T) {
	b, err := Encode(&Container{Type: MTEmcstatFullUpdate, EmcStatusTask: &EmcStatusTask{File: Ptr("part.ngc")}})
	require.NoError(t, err)

	_, err = Decode(b[:len(b)-3])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecode_WrongWireType(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, "not a ticket")

	_, err := Decode(b)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestEncode_Nil(t *testing.T) {
	_, err := Encode(nil)
	assert.ErrorIs(t, err, ErrMalformed)
}

// Field numbers of the machinetalk schema. Encode and Decode must both agree
// with bytes laid out by hand.
func TestCodec_FieldNumbers(t *testing.T) {
	var params []byte
	params = protowire.AppendTag(params, 1, protowire.VarintType)
	params = protowire.AppendVarint(params, 2)
	params = protowire.AppendTag(params, 2, protowire.Fixed64Type)
	params = protowire.AppendFixed64(params, math.Float64bits(12.5))
	params = protowire.AppendTag(params, 5, protowire.VarintType)
	params = protowire.AppendVarint(params, 3)
	params = protowire.AppendTag(params, 8, protowire.BytesType)
	params = protowire.AppendString(params, "/tmp/part.ngc")

	var io []byte
	io = protowire.AppendTag(io, 1, protowire.VarintType)
	io = protowire.AppendVarint(io, 1)
	io = protowire.AppendTag(io, 7, protowire.VarintType)
	io = protowire.AppendVarint(io, 4)

	var task []byte
	task = protowire.AppendTag(task, 7, protowire.VarintType)
	task = protowire.AppendVarint(task, 2)
	task = protowire.AppendTag(task, 9, protowire.VarintType)
	task = protowire.AppendVarint(task, 4)

	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(MTEmcTaskPlanOpen))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, 6)
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendString(b, "execute")
	b = protowire.AppendTag(b, 5, protowire.BytesType)
	b = protowire.AppendString(b, "first")
	b = protowire.AppendTag(b, 5, protowire.BytesType)
	b = protowire.AppendString(b, "second")
	b = protowire.AppendTag(b, 6, protowire.BytesType)
	b = protowire.AppendBytes(b, params)
	b = protowire.AppendTag(b, 9, protowire.BytesType)
	b = protowire.AppendBytes(b, io)
	b = protowire.AppendTag(b, 10, protowire.BytesType)
	b = protowire.AppendBytes(b, task)
	b = protowire.AppendTag(b, 14, protowire.VarintType)
	b = protowire.AppendVarint(b, 99)

	want := &Container{
		Type:        MTEmcTaskPlanOpen,
		Ticket:      Ptr[int32](7),
		ReplyTicket: Ptr[int32](6),
		InterpName:  Ptr("execute"),
		Note:        []string{"first", "second"},
		EmcCommandParams: &EmcCommandParams{
			Index:    Ptr[int32](2),
			Velocity: Ptr(12.5),
			TaskMode: Ptr[int32](3),
			Path:     Ptr("/tmp/part.ngc"),
		},
		EmcStatusIO:   &EmcStatusIO{Estop: Ptr(true), ToolInSpindle: Ptr[int32](4)},
		EmcStatusTask: &EmcStatusTask{TaskMode: Ptr[int32](2), TaskState: Ptr[int32](4)},
		Serial:        Ptr[int32](99),
	}

	got, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	enc, err := Encode(want)
	require.NoError(t, err)
	assert.Equal(t, b, enc)
}
