package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   *Container
		want Message
	}{
		{"ping", &Container{Type: MTPing}, Heartbeat{}},
		{"channel error", &Container{Type: MTError, Note: []string{"boom"}}, ChannelError{Notes: []string{"boom"}}},
		{"executed", &Container{Type: MTEmccmdExecuted, ReplyTicket: Ptr[int32](3)}, CommandReply{Ticket: 3, Stage: StageExecuted}},
		{"completed", &Container{Type: MTEmccmdCompleted, ReplyTicket: Ptr[int32](4)}, CommandReply{Ticket: 4, Stage: StageCompleted}},
		{"reply without ticket", &Container{Type: MTEmccmdCompleted}, Unrecognized{Type: MTEmccmdCompleted}},
		{"full motion", &Container{Type: MTEmcstatFullUpdate, EmcStatusMotion: &EmcStatusMotion{}}, StatusUpdate{Topic: TopicMotion, Full: true}},
		{"incremental io", &Container{Type: MTEmcstatIncrementalUpdate, EmcStatusIO: &EmcStatusIO{}}, StatusUpdate{Topic: TopicIO}},
		{"status without payload", &Container{Type: MTEmcstatFullUpdate}, Unrecognized{Type: MTEmcstatFullUpdate}},
		{"operator error", &Container{Type: MTEmcOperatorError, Note: []string{"x"}}, OperatorNotice{Level: NoticeError, Origin: OriginOperator, Notes: []string{"x"}}},
		{"nml display", &Container{Type: MTEmcNmlDisplay}, OperatorNotice{Level: NoticeDisplay, Origin: OriginNML}},
		{"hal full", &Container{Type: MTHalrcompFullUpdate}, HalUpdate{Full: true}},
		{"hal error", &Container{Type: MTHalrcompError, Note: []string{"gone"}}, HalError{Notes: []string{"gone"}}},
		{"unknown", &Container{Type: 9999}, Unrecognized{Type: 9999}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}

func TestContainerType_String(t *testing.T) {
	assert.Equal(t, "MT_EMCCMD_COMPLETED", MTEmccmdCompleted.String())
	assert.Equal(t, "MT_UNKNOWN(77)", ContainerType(77).String())
}
