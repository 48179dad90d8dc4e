package wire

// Message is the closed set of inbound container kinds the engine reacts to.
// Only types in this package implement it.
type Message interface {
	isMessage()
}

// Heartbeat is a liveness ping from the remote. It carries nothing.
type Heartbeat struct{}

// ChannelError is a fatal notice addressed to the whole channel.
type ChannelError struct {
	Notes []string
}

// ReplyStage is the progress a command reply reports.
type ReplyStage int

const (
	StageExecuted ReplyStage = iota + 1
	StageCompleted
)

func (s ReplyStage) String() string {
	switch s {
	case StageExecuted:
		return "executed"
	case StageCompleted:
		return "completed"
	}
	return "unknown"
}

// CommandReply correlates to an outstanding command through its ticket.
type CommandReply struct {
	Ticket int32
	Stage  ReplyStage
}

// StatusUpdate is a full or incremental snapshot of one status topic.
type StatusUpdate struct {
	Topic StatusTopic
	Full  bool
}

// NoticeLevel classifies operator notices.
type NoticeLevel string

const (
	NoticeError   NoticeLevel = "error"
	NoticeText    NoticeLevel = "text"
	NoticeDisplay NoticeLevel = "display"
)

// NoticeOrigin tells whether a notice came from the operator layer or NML.
type NoticeOrigin string

const (
	OriginOperator NoticeOrigin = "operator"
	OriginNML      NoticeOrigin = "nml"
)

// OperatorNotice is a message meant for the machine operator.
type OperatorNotice struct {
	Level  NoticeLevel
	Origin NoticeOrigin
	Notes  []string
}

// HalUpdate is a full or incremental HAL remote component update.
type HalUpdate struct {
	Full bool
}

// HalError reports a HAL remote component failure.
type HalError struct {
	Notes []string
}

// Unrecognized is anything else. Consumers log and drop it.
type Unrecognized struct {
	Type ContainerType
}

func (Heartbeat) isMessage()      {}
func (ChannelError) isMessage()   {}
func (CommandReply) isMessage()   {}
func (StatusUpdate) isMessage()   {}
func (OperatorNotice) isMessage() {}
func (HalUpdate) isMessage()      {}
func (HalError) isMessage()       {}
func (Unrecognized) isMessage()   {}

// Classify maps a decoded container onto its Message kind.
func Classify(c *Container) Message {
	switch c.Type {
	case MTPing:
		return Heartbeat{}
	case MTError:
		return ChannelError{Notes: c.Note}
	case MTEmccmdExecuted, MTEmccmdCompleted:
		if c.ReplyTicket == nil {
			return Unrecognized{Type: c.Type}
		}
		stage := StageExecuted
		if c.Type == MTEmccmdCompleted {
			stage = StageCompleted
		}
		return CommandReply{Ticket: *c.ReplyTicket, Stage: stage}
	case MTEmcstatFullUpdate, MTEmcstatIncrementalUpdate:
		topic, ok := statusTopic(c)
		if !ok {
			return Unrecognized{Type: c.Type}
		}
		return StatusUpdate{Topic: topic, Full: c.Type == MTEmcstatFullUpdate}
	case MTEmcOperatorError:
		return OperatorNotice{Level: NoticeError, Origin: OriginOperator, Notes: c.Note}
	case MTEmcOperatorText:
		return OperatorNotice{Level: NoticeText, Origin: OriginOperator, Notes: c.Note}
	case MTEmcOperatorDisplay:
		return OperatorNotice{Level: NoticeDisplay, Origin: OriginOperator, Notes: c.Note}
	case MTEmcNmlError:
		return OperatorNotice{Level: NoticeError, Origin: OriginNML, Notes: c.Note}
	case MTEmcNmlText:
		return OperatorNotice{Level: NoticeText, Origin: OriginNML, Notes: c.Note}
	case MTEmcNmlDisplay:
		return OperatorNotice{Level: NoticeDisplay, Origin: OriginNML, Notes: c.Note}
	case MTHalrcompFullUpdate:
		return HalUpdate{Full: true}
	case MTHalrcompIncrementalUpdate:
		return HalUpdate{Full: false}
	case MTHalrcompError:
		return HalError{Notes: c.Note}
	}
	return Unrecognized{Type: c.Type}
}

// statusTopic reports which status sub-message a container carries. A
// status container carries exactly one.
func statusTopic(c *Container) (StatusTopic, bool) {
	switch {
	case c.EmcStatusConfig != nil:
		return TopicConfig, true
	case c.EmcStatusMotion != nil:
		return TopicMotion, true
	case c.EmcStatusIO != nil:
		return TopicIO, true
	case c.EmcStatusTask != nil:
		return TopicTask, true
	case c.EmcStatusInterp != nil:
		return TopicInterp, true
	}
	return "", false
}
