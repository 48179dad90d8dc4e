package hal

import (
	"fmt"

	"github.com/roach88/mksync/internal/command"
)

// ToolChangeComponent is the HAL component driving manual tool changes.
const ToolChangeComponent = "fc_manualtoolchange"

// ToolChange reads the manual tool change handshake.
//
// The controller raises "change" with the tool in "number". The operator
// swaps the tool and the client raises "changed". Once the controller drops
// "change", the client drops "changed" again.
type ToolChange struct {
	comp *Component
}

// ToolChange returns the view when the component is bound.
func (m *Mirror) ToolChange() (ToolChange, bool) {
	c, ok := m.Component(ToolChangeComponent)
	if !ok {
		return ToolChange{}, false
	}
	return ToolChange{comp: c}, true
}

// Requested reports a pending tool change.
func (t ToolChange) Requested() bool {
	return t.comp.Bit("change", false) && !t.comp.Bit("changed", false)
}

// Done reports a confirmed change the controller has already taken up.
func (t ToolChange) Done() bool {
	return !t.comp.Bit("change", false) && t.comp.Bit("changed", false)
}

// ToolNumber is the requested tool, 0 for none.
func (t ToolChange) ToolNumber() int32 {
	return t.comp.S32("number", 0)
}

// Acknowledge builds the command setting the "changed" pin. Send it on the
// halrcmd dispatcher.
func (t ToolChange) Acknowledge(value bool) (*command.Command, error) {
	p, ok := t.comp.Pin("changed")
	if !ok {
		return nil, fmt.Errorf("%s has no changed pin", t.comp.Name)
	}
	return command.HalSetBit(p.Handle, value), nil
}
