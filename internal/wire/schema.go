package wire

import "google.golang.org/protobuf/encoding/protowire"

func (c *Container) appendTo(b []byte) []byte {
	t := int32(c.Type)
	b = appendInt32(b, 1, &t)
	b = appendInt32(b, 2, c.Ticket)
	b = appendInt32(b, 3, c.ReplyTicket)
	b = appendString(b, 4, c.InterpName)
	b = appendStrings(b, 5, c.Note)
	b = appendMessage(b, 6, c.EmcCommandParams)
	b = appendMessage(b, 7, c.EmcStatusConfig)
	b = appendMessage(b, 8, c.EmcStatusMotion)
	b = appendMessage(b, 9, c.EmcStatusIO)
	b = appendMessage(b, 10, c.EmcStatusTask)
	b = appendMessage(b, 11, c.EmcStatusInterp)
	b = appendMessages(b, 12, c.Comp)
	b = appendMessages(b, 13, c.Pin)
	b = appendInt32(b, 14, c.Serial)
	return b
}

func (c *Container) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		var t *int32
		n, err := readInt32(num, typ, b, &t)
		if err == nil {
			c.Type = ContainerType(*t)
		}
		return n, err
	case 2:
		return readInt32(num, typ, b, &c.Ticket)
	case 3:
		return readInt32(num, typ, b, &c.ReplyTicket)
	case 4:
		return readString(num, typ, b, &c.InterpName)
	case 5:
		return readStrings(num, typ, b, &c.Note)
	case 6:
		return readMessage(num, typ, b, &c.EmcCommandParams)
	case 7:
		return readMessage(num, typ, b, &c.EmcStatusConfig)
	case 8:
		return readMessage(num, typ, b, &c.EmcStatusMotion)
	case 9:
		return readMessage(num, typ, b, &c.EmcStatusIO)
	case 10:
		return readMessage(num, typ, b, &c.EmcStatusTask)
	case 11:
		return readMessage(num, typ, b, &c.EmcStatusInterp)
	case 12:
		return readMessages(num, typ, b, &c.Comp)
	case 13:
		return readMessages(num, typ, b, &c.Pin)
	case 14:
		return readInt32(num, typ, b, &c.Serial)
	}
	return 0, nil
}

func (p *EmcCommandParams) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, p.Index)
	b = appendDouble(b, 2, p.Velocity)
	b = appendDouble(b, 3, p.Distance)
	b = appendDouble(b, 4, p.Scale)
	b = appendInt32(b, 5, p.TaskMode)
	b = appendInt32(b, 6, p.TaskState)
	b = appendInt32(b, 7, p.LineNumber)
	b = appendString(b, 8, p.Path)
	b = appendString(b, 9, p.Command)
	return b
}

func (p *EmcCommandParams) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return readInt32(num, typ, b, &p.Index)
	case 2:
		return readDouble(num, typ, b, &p.Velocity)
	case 3:
		return readDouble(num, typ, b, &p.Distance)
	case 4:
		return readDouble(num, typ, b, &p.Scale)
	case 5:
		return readInt32(num, typ, b, &p.TaskMode)
	case 6:
		return readInt32(num, typ, b, &p.TaskState)
	case 7:
		return readInt32(num, typ, b, &p.LineNumber)
	case 8:
		return readString(num, typ, b, &p.Path)
	case 9:
		return readString(num, typ, b, &p.Command)
	}
	return 0, nil
}

func (p *Position) appendTo(b []byte) []byte {
	for i, v := range p.Axes() {
		b = appendDouble(b, protowire.Number(i+1), v)
	}
	return b
}

func (p *Position) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	var dst **float64
	switch num {
	case 1:
		dst = &p.X
	case 2:
		dst = &p.Y
	case 3:
		dst = &p.Z
	case 4:
		dst = &p.A
	case 5:
		dst = &p.B
	case 6:
		dst = &p.C
	case 7:
		dst = &p.U
	case 8:
		dst = &p.V
	case 9:
		dst = &p.W
	default:
		return 0, nil
	}
	return readDouble(num, typ, b, dst)
}

func (a *EmcStatusConfigAxis) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, a.Index)
	b = appendInt32(b, 2, a.AxisType)
	b = appendDouble(b, 3, a.MaxVelocity)
	b = appendDouble(b, 4, a.MaxAcceleration)
	b = appendInt32(b, 5, a.HomeSequence)
	b = appendDouble(b, 6, a.MinPositionLimit)
	b = appendDouble(b, 7, a.MaxPositionLimit)
	b = appendDouble(b, 8, a.MinFerror)
	b = appendDouble(b, 9, a.MaxFerror)
	return b
}

func (a *EmcStatusConfigAxis) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return readInt32(num, typ, b, &a.Index)
	case 2:
		return readInt32(num, typ, b, &a.AxisType)
	case 3:
		return readDouble(num, typ, b, &a.MaxVelocity)
	case 4:
		return readDouble(num, typ, b, &a.MaxAcceleration)
	case 5:
		return readInt32(num, typ, b, &a.HomeSequence)
	case 6:
		return readDouble(num, typ, b, &a.MinPositionLimit)
	case 7:
		return readDouble(num, typ, b, &a.MaxPositionLimit)
	case 8:
		return readDouble(num, typ, b, &a.MinFerror)
	case 9:
		return readDouble(num, typ, b, &a.MaxFerror)
	}
	return 0, nil
}

func (c *EmcStatusConfig) appendTo(b []byte) []byte {
	b = appendDouble(b, 1, c.MinFeedOverride)
	b = appendDouble(b, 2, c.MaxFeedOverride)
	b = appendDouble(b, 3, c.MinSpindleOverride)
	b = appendDouble(b, 4, c.MaxSpindleOverride)
	b = appendDouble(b, 5, c.DefaultSpindleSpeed)
	b = appendDouble(b, 6, c.MinLinearVelocity)
	b = appendDouble(b, 7, c.MaxLinearVelocity)
	b = appendDouble(b, 8, c.DefaultLinearVelocity)
	b = appendDouble(b, 9, c.MinAngularVelocity)
	b = appendDouble(b, 10, c.MaxAngularVelocity)
	b = appendDouble(b, 11, c.DefaultAngularVelocity)
	b = appendString(b, 12, c.Name)
	b = appendInt32(b, 13, c.TimeUnits)
	b = appendInt32(b, 14, c.AngularUnits)
	b = appendInt32(b, 15, c.LinearUnits)
	b = appendMessages(b, 16, c.Axis)
	b = appendInt32(b, 17, c.AxisMask)
	b = appendString(b, 18, c.Increments)
	b = appendString(b, 19, c.RemotePath)
	return b
}

func (c *EmcStatusConfig) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return readDouble(num, typ, b, &c.MinFeedOverride)
	case 2:
		return readDouble(num, typ, b, &c.MaxFeedOverride)
	case 3:
		return readDouble(num, typ, b, &c.MinSpindleOverride)
	case 4:
		return readDouble(num, typ, b, &c.MaxSpindleOverride)
	case 5:
		return readDouble(num, typ, b, &c.DefaultSpindleSpeed)
	case 6:
		return readDouble(num, typ, b, &c.MinLinearVelocity)
	case 7:
		return readDouble(num, typ, b, &c.MaxLinearVelocity)
	case 8:
		return readDouble(num, typ, b, &c.DefaultLinearVelocity)
	case 9:
		return readDouble(num, typ, b, &c.MinAngularVelocity)
	case 10:
		return readDouble(num, typ, b, &c.MaxAngularVelocity)
	case 11:
		return readDouble(num, typ, b, &c.DefaultAngularVelocity)
	case 12:
		return readString(num, typ, b, &c.Name)
	case 13:
		return readInt32(num, typ, b, &c.TimeUnits)
	case 14:
		return readInt32(num, typ, b, &c.AngularUnits)
	case 15:
		return readInt32(num, typ, b, &c.LinearUnits)
	case 16:
		return readMessages(num, typ, b, &c.Axis)
	case 17:
		return readInt32(num, typ, b, &c.AxisMask)
	case 18:
		return readString(num, typ, b, &c.Increments)
	case 19:
		return readString(num, typ, b, &c.RemotePath)
	}
	return 0, nil
}

func (a *EmcStatusMotionAxis) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, a.Index)
	b = appendBool(b, 2, a.Enabled)
	b = appendBool(b, 3, a.Fault)
	b = appendDouble(b, 4, a.FerrorCurrent)
	b = appendDouble(b, 5, a.FerrorHighmark)
	b = appendBool(b, 6, a.Homed)
	b = appendBool(b, 7, a.Homing)
	b = appendBool(b, 8, a.Inpos)
	b = appendDouble(b, 9, a.Input)
	b = appendDouble(b, 10, a.Output)
	b = appendBool(b, 11, a.OverrideLimits)
	b = appendDouble(b, 12, a.Velocity)
	b = appendBool(b, 13, a.MinSoftLimit)
	b = appendBool(b, 14, a.MaxSoftLimit)
	b = appendBool(b, 15, a.MinHardLimit)
	b = appendBool(b, 16, a.MaxHardLimit)
	return b
}

func (a *EmcStatusMotionAxis) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return readInt32(num, typ, b, &a.Index)
	case 2:
		return readBool(num, typ, b, &a.Enabled)
	case 3:
		return readBool(num, typ, b, &a.Fault)
	case 4:
		return readDouble(num, typ, b, &a.FerrorCurrent)
	case 5:
		return readDouble(num, typ, b, &a.FerrorHighmark)
	case 6:
		return readBool(num, typ, b, &a.Homed)
	case 7:
		return readBool(num, typ, b, &a.Homing)
	case 8:
		return readBool(num, typ, b, &a.Inpos)
	case 9:
		return readDouble(num, typ, b, &a.Input)
	case 10:
		return readDouble(num, typ, b, &a.Output)
	case 11:
		return readBool(num, typ, b, &a.OverrideLimits)
	case 12:
		return readDouble(num, typ, b, &a.Velocity)
	case 13:
		return readBool(num, typ, b, &a.MinSoftLimit)
	case 14:
		return readBool(num, typ, b, &a.MaxSoftLimit)
	case 15:
		return readBool(num, typ, b, &a.MinHardLimit)
	case 16:
		return readBool(num, typ, b, &a.MaxHardLimit)
	}
	return 0, nil
}

func (p *AnalogIO) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, p.Index)
	return appendDouble(b, 2, p.Value)
}

func (p *AnalogIO) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return readInt32(num, typ, b, &p.Index)
	case 2:
		return readDouble(num, typ, b, &p.Value)
	}
	return 0, nil
}

func (p *DigitalIO) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, p.Index)
	return appendBool(b, 2, p.Value)
}

func (p *DigitalIO) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return readInt32(num, typ, b, &p.Index)
	case 2:
		return readBool(num, typ, b, &p.Value)
	}
	return 0, nil
}

func (p *LimitIO) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, p.Index)
	return appendInt32(b, 2, p.Value)
}

func (p *LimitIO) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return readInt32(num, typ, b, &p.Index)
	case 2:
		return readInt32(num, typ, b, &p.Value)
	}
	return 0, nil
}

func (m *EmcStatusMotion) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, m.ActiveQueue)
	b = appendMessage(b, 2, m.ActualPosition)
	b = appendBool(b, 3, m.AdaptiveFeedEnabled)
	b = appendMessages(b, 4, m.Ain)
	b = appendMessages(b, 5, m.Aout)
	b = appendMessages(b, 6, m.Axis)
	b = appendBool(b, 7, m.BlockDelete)
	b = appendInt32(b, 8, m.CurrentLine)
	b = appendDouble(b, 9, m.CurrentVel)
	b = appendDouble(b, 10, m.DelayLeft)
	b = appendMessages(b, 11, m.Din)
	b = appendDouble(b, 12, m.DistanceToGo)
	b = appendMessages(b, 13, m.Dout)
	b = appendMessage(b, 14, m.Dtg)
	b = appendBool(b, 15, m.Enabled)
	b = appendBool(b, 16, m.FeedHoldEnabled)
	b = appendBool(b, 17, m.FeedOverrideEnabled)
	b = appendDouble(b, 18, m.Feedrate)
	b = appendInt32(b, 19, m.G5xIndex)
	b = appendMessage(b, 20, m.G5xOffset)
	b = appendMessage(b, 21, m.G92Offset)
	b = appendInt32(b, 22, m.ID)
	b = appendBool(b, 23, m.Inpos)
	b = appendMessage(b, 24, m.JointActualPosition)
	b = appendMessage(b, 25, m.JointPosition)
	b = appendMessages(b, 26, m.Limit)
	b = appendInt32(b, 27, m.MotionLine)
	b = appendInt32(b, 28, m.MotionType)
	b = appendInt32(b, 29, m.MotionMode)
	b = appendBool(b, 30, m.Paused)
	b = appendMessage(b, 31, m.Position)
	b = appendBool(b, 32, m.ProbeTripped)
	b = appendInt32(b, 33, m.ProbeVal)
	b = appendMessage(b, 34, m.ProbedPosition)
	b = appendBool(b, 35, m.Probing)
	b = appendInt32(b, 36, m.Queue)
	b = appendBool(b, 37, m.QueueFull)
	b = appendDouble(b, 38, m.Rapidrate)
	b = appendDouble(b, 39, m.RotationXY)
	b = appendBool(b, 40, m.SpindleBrake)
	b = appendInt32(b, 41, m.SpindleDirection)
	b = appendBool(b, 42, m.SpindleEnabled)
	b = appendInt32(b, 43, m.SpindleIncreasing)
	b = appendBool(b, 44, m.SpindleOverrideEnabled)
	b = appendDouble(b, 45, m.SpindleSpeed)
	b = appendDouble(b, 46, m.Spindlerate)
	b = appendInt32(b, 47, m.State)
	b = appendDouble(b, 48, m.MaxVelocity)
	b = appendDouble(b, 49, m.MaxAcceleration)
	return b
}

func (m *EmcStatusMotion) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return readInt32(num, typ, b, &m.ActiveQueue)
	case 2:
		return readMessage(num, typ, b, &m.ActualPosition)
	case 3:
		return readBool(num, typ, b, &m.AdaptiveFeedEnabled)
	case 4:
		return readMessages(num, typ, b, &m.Ain)
	case 5:
		return readMessages(num, typ, b, &m.Aout)
	case 6:
		return readMessages(num, typ, b, &m.Axis)
	case 7:
		return readBool(num, typ, b, &m.BlockDelete)
	case 8:
		return readInt32(num, typ, b, &m.CurrentLine)
	case 9:
		return readDouble(num, typ, b, &m.CurrentVel)
	case 10:
		return readDouble(num, typ, b, &m.DelayLeft)
	case 11:
		return readMessages(num, typ, b, &m.Din)
	case 12:
		return readDouble(num, typ, b, &m.DistanceToGo)
	case 13:
		return readMessages(num, typ, b, &m.Dout)
	case 14:
		return readMessage(num, typ, b, &m.Dtg)
	case 15:
		return readBool(num, typ, b, &m.Enabled)
	case 16:
		return readBool(num, typ, b, &m.FeedHoldEnabled)
	case 17:
		return readBool(num, typ, b, &m.FeedOverrideEnabled)
	case 18:
		return readDouble(num, typ, b, &m.Feedrate)
	case 19:
		return readInt32(num, typ, b, &m.G5xIndex)
	case 20:
		return readMessage(num, typ, b, &m.G5xOffset)
	case 21:
		return readMessage(num, typ, b, &m.G92Offset)
	case 22:
		return readInt32(num, typ, b, &m.ID)
	case 23:
		return readBool(num, typ, b, &m.Inpos)
	case 24:
		return readMessage(num, typ, b, &m.JointActualPosition)
	case 25:
		return readMessage(num, typ, b, &m.JointPosition)
	case 26:
		return readMessages(num, typ, b, &m.Limit)
	case 27:
		return readInt32(num, typ, b, &m.MotionLine)
	case 28:
		return readInt32(num, typ, b, &m.MotionType)
	case 29:
		return readInt32(num, typ, b, &m.MotionMode)
	case 30:
		return readBool(num, typ, b, &m.Paused)
	case 31:
		return readMessage(num, typ, b, &m.Position)
	case 32:
		return readBool(num, typ, b, &m.ProbeTripped)
	case 33:
		return readInt32(num, typ, b, &m.ProbeVal)
	case 34:
		return readMessage(num, typ, b, &m.ProbedPosition)
	case 35:
		return readBool(num, typ, b, &m.Probing)
	case 36:
		return readInt32(num, typ, b, &m.Queue)
	case 37:
		return readBool(num, typ, b, &m.QueueFull)
	case 38:
		return readDouble(num, typ, b, &m.Rapidrate)
	case 39:
		return readDouble(num, typ, b, &m.RotationXY)
	case 40:
		return readBool(num, typ, b, &m.SpindleBrake)
	case 41:
		return readInt32(num, typ, b, &m.SpindleDirection)
	case 42:
		return readBool(num, typ, b, &m.SpindleEnabled)
	case 43:
		return readInt32(num, typ, b, &m.SpindleIncreasing)
	case 44:
		return readBool(num, typ, b, &m.SpindleOverrideEnabled)
	case 45:
		return readDouble(num, typ, b, &m.SpindleSpeed)
	case 46:
		return readDouble(num, typ, b, &m.Spindlerate)
	case 47:
		return readInt32(num, typ, b, &m.State)
	case 48:
		return readDouble(num, typ, b, &m.MaxVelocity)
	case 49:
		return readDouble(num, typ, b, &m.MaxAcceleration)
	}
	return 0, nil
}

func (t *EmcToolData) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, t.Index)
	b = appendInt32(b, 2, t.ID)
	b = appendMessage(b, 3, t.Offset)
	b = appendDouble(b, 4, t.Diameter)
	b = appendDouble(b, 5, t.FrontAngle)
	b = appendDouble(b, 6, t.BackAngle)
	b = appendInt32(b, 7, t.Orientation)
	b = appendString(b, 8, t.Comment)
	b = appendInt32(b, 9, t.Pocket)
	return b
}

func (t *EmcToolData) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return readInt32(num, typ, b, &t.Index)
	case 2:
		return readInt32(num, typ, b, &t.ID)
	case 3:
		return readMessage(num, typ, b, &t.Offset)
	case 4:
		return readDouble(num, typ, b, &t.Diameter)
	case 5:
		return readDouble(num, typ, b, &t.FrontAngle)
	case 6:
		return readDouble(num, typ, b, &t.BackAngle)
	case 7:
		return readInt32(num, typ, b, &t.Orientation)
	case 8:
		return readString(num, typ, b, &t.Comment)
	case 9:
		return readInt32(num, typ, b, &t.Pocket)
	}
	return 0, nil
}

func (s *EmcStatusIO) appendTo(b []byte) []byte {
	b = appendBool(b, 1, s.Estop)
	b = appendBool(b, 2, s.Flood)
	b = appendBool(b, 3, s.Lube)
	b = appendBool(b, 4, s.LubeLevel)
	b = appendBool(b, 5, s.Mist)
	b = appendInt32(b, 6, s.PocketPrepped)
	b = appendInt32(b, 7, s.ToolInSpindle)
	b = appendMessage(b, 8, s.ToolOffset)
	b = appendMessages(b, 9, s.ToolTable)
	return b
}

func (s *EmcStatusIO) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return readBool(num, typ, b, &s.Estop)
	case 2:
		return readBool(num, typ, b, &s.Flood)
	case 3:
		return readBool(num, typ, b, &s.Lube)
	case 4:
		return readBool(num, typ, b, &s.LubeLevel)
	case 5:
		return readBool(num, typ, b, &s.Mist)
	case 6:
		return readInt32(num, typ, b, &s.PocketPrepped)
	case 7:
		return readInt32(num, typ, b, &s.ToolInSpindle)
	case 8:
		return readMessage(num, typ, b, &s.ToolOffset)
	case 9:
		return readMessages(num, typ, b, &s.ToolTable)
	}
	return 0, nil
}

func (s *EmcStatusTask) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, s.EchoSerialNumber)
	b = appendInt32(b, 2, s.ExecState)
	b = appendString(b, 3, s.File)
	b = appendBool(b, 4, s.InputTimeout)
	b = appendBool(b, 5, s.OptionalStop)
	b = appendInt32(b, 6, s.ReadLine)
	b = appendInt32(b, 7, s.TaskMode)
	b = appendInt32(b, 8, s.TaskPaused)
	b = appendInt32(b, 9, s.TaskState)
	b = appendInt32(b, 10, s.TotalLines)
	return b
}

func (s *EmcStatusTask) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return readInt32(num, typ, b, &s.EchoSerialNumber)
	case 2:
		return readInt32(num, typ, b, &s.ExecState)
	case 3:
		return readString(num, typ, b, &s.File)
	case 4:
		return readBool(num, typ, b, &s.InputTimeout)
	case 5:
		return readBool(num, typ, b, &s.OptionalStop)
	case 6:
		return readInt32(num, typ, b, &s.ReadLine)
	case 7:
		return readInt32(num, typ, b, &s.TaskMode)
	case 8:
		return readInt32(num, typ, b, &s.TaskPaused)
	case 9:
		return readInt32(num, typ, b, &s.TaskState)
	case 10:
		return readInt32(num, typ, b, &s.TotalLines)
	}
	return 0, nil
}

func (g *GCode) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, g.Index)
	return appendInt32(b, 2, g.Value)
}

func (g *GCode) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return readInt32(num, typ, b, &g.Index)
	case 2:
		return readInt32(num, typ, b, &g.Value)
	}
	return 0, nil
}

func (s *InterpSetting) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, s.Index)
	return appendDouble(b, 2, s.Value)
}

func (s *InterpSetting) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return readInt32(num, typ, b, &s.Index)
	case 2:
		return readDouble(num, typ, b, &s.Value)
	}
	return 0, nil
}

func (s *EmcStatusInterp) appendTo(b []byte) []byte {
	b = appendString(b, 1, s.Command)
	b = appendMessages(b, 2, s.Gcodes)
	b = appendInt32(b, 3, s.InterpState)
	b = appendInt32(b, 4, s.InterpreterErrcode)
	b = appendMessages(b, 5, s.Mcodes)
	b = appendInt32(b, 6, s.ProgramUnits)
	b = appendMessages(b, 7, s.Settings)
	return b
}

func (s *EmcStatusInterp) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return readString(num, typ, b, &s.Command)
	case 2:
		return readMessages(num, typ, b, &s.Gcodes)
	case 3:
		return readInt32(num, typ, b, &s.InterpState)
	case 4:
		return readInt32(num, typ, b, &s.InterpreterErrcode)
	case 5:
		return readMessages(num, typ, b, &s.Mcodes)
	case 6:
		return readInt32(num, typ, b, &s.ProgramUnits)
	case 7:
		return readMessages(num, typ, b, &s.Settings)
	}
	return 0, nil
}

func (c *Component) appendTo(b []byte) []byte {
	b = appendString(b, 1, c.Name)
	b = appendInt32(b, 2, c.CompID)
	return appendMessages(b, 3, c.Pin)
}

func (c *Component) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return readString(num, typ, b, &c.Name)
	case 2:
		return readInt32(num, typ, b, &c.CompID)
	case 3:
		return readMessages(num, typ, b, &c.Pin)
	}
	return 0, nil
}

func (p *Pin) appendTo(b []byte) []byte {
	b = appendString(b, 1, p.Name)
	b = appendInt32(b, 2, p.Handle)
	b = appendInt32(b, 3, p.Type)
	b = appendInt32(b, 4, p.Dir)
	b = appendBool(b, 5, p.Halbit)
	b = appendInt32(b, 6, p.Hals32)
	b = appendInt32(b, 7, p.Halu32)
	b = appendDouble(b, 8, p.Halfloat)
	return b
}

func (p *Pin) consume(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return readString(num, typ, b, &p.Name)
	case 2:
		return readInt32(num, typ, b, &p.Handle)
	case 3:
		return readInt32(num, typ, b, &p.Type)
	case 4:
		return readInt32(num, typ, b, &p.Dir)
	case 5:
		return readBool(num, typ, b, &p.Halbit)
	case 6:
		return readInt32(num, typ, b, &p.Hals32)
	case 7:
		return readInt32(num, typ, b, &p.Halu32)
	case 8:
		return readDouble(num, typ, b, &p.Halfloat)
	}
	return 0, nil
}
