package cli

import (
	"log/slog"

	"github.com/roach88/mksync/internal/engine"
	"github.com/roach88/mksync/internal/hal"
	"github.com/roach88/mksync/internal/notify"
)

// toolChanger answers the manual tool change handshake without an
// operator: it raises "changed" on request and drops it once the
// controller has taken the change up.
//
// Runs on the pump goroutine as a HAL mirror observer.
type toolChanger struct {
	engine *engine.Engine
	logger *slog.Logger
	obs    hal.Observer

	acked bool
	count int
}

func newToolChanger(e *engine.Engine, logger *slog.Logger) *toolChanger {
	t := &toolChanger{engine: e, logger: logger.With("component", hal.ToolChangeComponent)}
	t.obs = notify.ObserverFunc(func(string, []string) { t.update() })
	return t
}

func (t *toolChanger) attach() { t.engine.HAL().Attach(t.obs, hal.ToolChangeComponent) }
func (t *toolChanger) detach() { t.engine.HAL().Detach(t.obs) }

func (t *toolChanger) update() {
	tc, ok := t.engine.HAL().ToolChange()
	if !ok {
		return
	}
	switch {
	case tc.Requested() && !t.acked:
		if t.send(tc, true) {
			t.acked = true
			t.count++
			t.logger.Info("tool change acknowledged", "tool", tc.ToolNumber())
		}
	case tc.Done() && t.acked:
		if t.send(tc, false) {
			t.acked = false
		}
	}
}

func (t *toolChanger) send(tc hal.ToolChange, value bool) bool {
	cmd, err := tc.Acknowledge(value)
	if err != nil {
		t.logger.Error("cannot acknowledge tool change", "error", err)
		return false
	}
	t.engine.HalCommands().SendCommand(cmd)
	return !cmd.IsObsolete() && cmd.Ticket() != 0
}
