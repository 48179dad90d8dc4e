// Package harness runs scripted controller conversations against the engine.
//
// A scenario plays the machine side: it publishes status, answers command
// tickets, raises operator notices and channel errors. The client side is
// the real engine on fake sockets, so every trace the harness records was
// produced by the dispatcher, the sequencer and the mirrors themselves.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: mdi_from_manual
//	description: "MDI switches to MDI mode before executing"
//	status:
//	  task: { mode: manual, state: on }
//	  io: { estop: false, tool: 0 }
//	flow:
//	  - sequence: { name: mdi, lines: ["G0 X1"] }
//	  - reply: { ticket: 1, stage: completed }
//	  - reply: { ticket: 2, stage: completed }
//	assertions:
//	  - type: sent_order
//	    commands: [MT_EMC_TASK_SET_MODE, MT_EMC_TASK_PLAN_EXECUTE]
//	  - type: sequence_done
//
// Each flow step is followed by one engine pump.
//
// # Assertion Types
//
//   - sent_order: the commands were sent in this relative order
//   - sent_count: a command type was sent exactly N times
//   - command_state: the command with a ticket ended in a state
//   - sequence_done: the last started sequence is no longer active
//   - status: a mirrored status path holds a value
//   - notice_count: N notices of a level were received
//
// # Golden Traces
//
// RunWithGolden compares the recorded trace with
// testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
