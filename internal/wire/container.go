package wire

// Container is the envelope of every frame.
type Container struct {
	Type        ContainerType // 1
	Ticket      *int32        // 2
	ReplyTicket *int32        // 3
	InterpName  *string       // 4
	Note        []string      // 5

	EmcCommandParams *EmcCommandParams // 6
	EmcStatusConfig  *EmcStatusConfig  // 7
	EmcStatusMotion  *EmcStatusMotion  // 8
	EmcStatusIO      *EmcStatusIO      // 9
	EmcStatusTask    *EmcStatusTask    // 10
	EmcStatusInterp  *EmcStatusInterp  // 11

	Comp   []*Component // 12
	Pin    []*Pin       // 13
	Serial *int32       // 14
}

// EmcCommandParams carries the arguments of an outbound controller command.
type EmcCommandParams struct {
	Index      *int32   // 1
	Velocity   *float64 // 2
	Distance   *float64 // 3
	Scale      *float64 // 4
	TaskMode   *int32   // 5
	TaskState  *int32   // 6
	LineNumber *int32   // 7
	Path       *string  // 8
	Command    *string  // 9
}

// Position is a 9-axis coordinate. Each axis letter is independently optional.
type Position struct {
	X *float64 // 1
	Y *float64 // 2
	Z *float64 // 3
	A *float64 // 4
	B *float64 // 5
	C *float64 // 6
	U *float64 // 7
	V *float64 // 8
	W *float64 // 9
}

// Axes returns the axis components in x y z a b c u v w order.
func (p *Position) Axes() [9]*float64 {
	return [9]*float64{p.X, p.Y, p.Z, p.A, p.B, p.C, p.U, p.V, p.W}
}

type EmcStatusConfigAxis struct {
	Index            *int32   // 1
	AxisType         *int32   // 2
	MaxVelocity      *float64 // 3
	MaxAcceleration  *float64 // 4
	HomeSequence     *int32   // 5
	MinPositionLimit *float64 // 6
	MaxPositionLimit *float64 // 7
	MinFerror        *float64 // 8
	MaxFerror        *float64 // 9
}

type EmcStatusConfig struct {
	MinFeedOverride        *float64               // 1
	MaxFeedOverride        *float64               // 2
	MinSpindleOverride     *float64               // 3
	MaxSpindleOverride     *float64               // 4
	DefaultSpindleSpeed    *float64               // 5
	MinLinearVelocity      *float64               // 6
	MaxLinearVelocity      *float64               // 7
	DefaultLinearVelocity  *float64               // 8
	MinAngularVelocity     *float64               // 9
	MaxAngularVelocity     *float64               // 10
	DefaultAngularVelocity *float64               // 11
	Name                   *string                // 12
	TimeUnits              *int32                 // 13
	AngularUnits           *int32                 // 14
	LinearUnits            *int32                 // 15
	Axis                   []*EmcStatusConfigAxis // 16
	AxisMask               *int32                 // 17
	Increments             *string                // 18
	RemotePath             *string                // 19
}

type EmcStatusMotionAxis struct {
	Index          *int32   // 1
	Enabled        *bool    // 2
	Fault          *bool    // 3
	FerrorCurrent  *float64 // 4
	FerrorHighmark *float64 // 5
	Homed          *bool    // 6
	Homing         *bool    // 7
	Inpos          *bool    // 8
	Input          *float64 // 9
	Output         *float64 // 10
	OverrideLimits *bool    // 11
	Velocity       *float64 // 12
	MinSoftLimit   *bool    // 13
	MaxSoftLimit   *bool    // 14
	MinHardLimit   *bool    // 15
	MaxHardLimit   *bool    // 16
}

// AnalogIO is one indexed analog pin value.
type AnalogIO struct {
	Index *int32   // 1
	Value *float64 // 2
}

// DigitalIO is one indexed digital pin value.
type DigitalIO struct {
	Index *int32 // 1
	Value *bool  // 2
}

// LimitIO is one indexed joint limit mask.
type LimitIO struct {
	Index *int32 // 1
	Value *int32 // 2
}

type EmcStatusMotion struct {
	ActiveQueue            *int32                 // 1
	ActualPosition         *Position              // 2
	AdaptiveFeedEnabled    *bool                  // 3
	Ain                    []*AnalogIO            // 4
	Aout                   []*AnalogIO            // 5
	Axis                   []*EmcStatusMotionAxis // 6
	BlockDelete            *bool                  // 7
	CurrentLine            *int32                 // 8
	CurrentVel             *float64               // 9
	DelayLeft              *float64               // 10
	Din                    []*DigitalIO           // 11
	DistanceToGo           *float64               // 12
	Dout                   []*DigitalIO           // 13
	Dtg                    *Position              // 14
	Enabled                *bool                  // 15
	FeedHoldEnabled        *bool                  // 16
	FeedOverrideEnabled    *bool                  // 17
	Feedrate               *float64               // 18
	G5xIndex               *int32                 // 19
	G5xOffset              *Position              // 20
	G92Offset              *Position              // 21
	ID                     *int32                 // 22
	Inpos                  *bool                  // 23
	JointActualPosition    *Position              // 24
	JointPosition          *Position              // 25
	Limit                  []*LimitIO             // 26
	MotionLine             *int32                 // 27
	MotionType             *int32                 // 28
	MotionMode             *int32                 // 29
	Paused                 *bool                  // 30
	Position               *Position              // 31
	ProbeTripped           *bool                  // 32
	ProbeVal               *int32                 // 33
	ProbedPosition         *Position              // 34
	Probing                *bool                  // 35
	Queue                  *int32                 // 36
	QueueFull              *bool                  // 37
	Rapidrate              *float64               // 38
	RotationXY             *float64               // 39
	SpindleBrake           *bool                  // 40
	SpindleDirection       *int32                 // 41
	SpindleEnabled         *bool                  // 42
	SpindleIncreasing      *int32                 // 43
	SpindleOverrideEnabled *bool                  // 44
	SpindleSpeed           *float64               // 45
	Spindlerate            *float64               // 46
	State                  *int32                 // 47
	MaxVelocity            *float64               // 48
	MaxAcceleration        *float64               // 49
}

// EmcToolData is one row of the tool table.
type EmcToolData struct {
	Index       *int32    // 1
	ID          *int32    // 2
	Offset      *Position // 3
	Diameter    *float64  // 4
	FrontAngle  *float64  // 5
	BackAngle   *float64  // 6
	Orientation *int32    // 7
	Comment     *string   // 8
	Pocket      *int32    // 9
}

type EmcStatusIO struct {
	Estop         *bool          // 1
	Flood         *bool          // 2
	Lube          *bool          // 3
	LubeLevel     *bool          // 4
	Mist          *bool          // 5
	PocketPrepped *int32         // 6
	ToolInSpindle *int32         // 7
	ToolOffset    *Position      // 8
	ToolTable     []*EmcToolData // 9
}

type EmcStatusTask struct {
	EchoSerialNumber *int32  // 1
	ExecState        *int32  // 2
	File             *string // 3
	InputTimeout     *bool   // 4
	OptionalStop     *bool   // 5
	ReadLine         *int32  // 6
	TaskMode         *int32  // 7
	TaskPaused       *int32  // 8
	TaskState        *int32  // 9
	TotalLines       *int32  // 10
}

// GCode is an active modal G or M code slot.
type GCode struct {
	Index *int32 // 1
	Value *int32 // 2
}

// InterpSetting is one of the interpreter's numbered settings.
type InterpSetting struct {
	Index *int32   // 1
	Value *float64 // 2
}

type EmcStatusInterp struct {
	Command            *string          // 1
	Gcodes             []*GCode         // 2
	InterpState        *int32           // 3
	InterpreterErrcode *int32           // 4
	Mcodes             []*GCode         // 5
	ProgramUnits       *int32           // 6
	Settings           []*InterpSetting // 7
}

// Component is a HAL remote component as announced by the halrcomp channel.
type Component struct {
	Name   *string // 1
	CompID *int32  // 2
	Pin    []*Pin  // 3
}

// Pin is a HAL pin. Exactly one of the value fields is meaningful, selected by Type.
type Pin struct {
	Name     *string  // 1
	Handle   *int32   // 2
	Type     *int32   // 3
	Dir      *int32   // 4
	Halbit   *bool    // 5
	Hals32   *int32   // 6
	Halu32   *int32   // 7
	Halfloat *float64 // 8
}
