package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Scenario is one scripted conversation with the controller.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Status is published as full updates before the flow starts.
	Status StatusStep `yaml:"status"`

	// Flow is executed in order, one engine pump after every step.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the trace and the final engine state.
	Assertions []Assertion `yaml:"assertions"`
}

// StatusStep describes task and io status. Unset fields are not sent.
type StatusStep struct {
	Task *TaskStatus `yaml:"task,omitempty"`
	IO   *IOStatus   `yaml:"io,omitempty"`
}

// TaskStatus uses mode names manual|auto|mdi and state names
// estop|estop_reset|off|on.
type TaskStatus struct {
	Mode  string `yaml:"mode,omitempty"`
	State string `yaml:"state,omitempty"`
}

type IOStatus struct {
	Estop *bool  `yaml:"estop,omitempty"`
	Tool  *int32 `yaml:"tool,omitempty"`
}

// FlowStep holds exactly one action.
type FlowStep struct {
	// Send transmits one command directly.
	Send *SendStep `yaml:"send,omitempty"`

	// Sequence starts one of the canned command sequences.
	Sequence *SequenceStep `yaml:"sequence,omitempty"`

	// Reply answers a ticket on the command channel.
	Reply *ReplyStep `yaml:"reply,omitempty"`

	// Status publishes an incremental status update.
	Status *StatusStep `yaml:"status,omitempty"`

	// Notice raises an operator notice on the error channel.
	Notice *NoticeStep `yaml:"notice,omitempty"`

	// ChannelError sends a channel-fatal error on the command channel.
	ChannelError []string `yaml:"channel_error,omitempty"`

	// Abort aborts every running sequence.
	Abort bool `yaml:"abort,omitempty"`
}

// SendStep names a command: estop, estop_reset, power_on, power_off,
// set_mode, mdi, home, pause, resume, step, abort.
type SendStep struct {
	Command string `yaml:"command"`
	Mode    string `yaml:"mode,omitempty"`
	GCode   string `yaml:"gcode,omitempty"`
	Axis    int32  `yaml:"axis,omitempty"`
}

// SequenceStep names a canned sequence: power, home_all, mdi,
// load_program, run_program.
type SequenceStep struct {
	Name  string   `yaml:"name"`
	On    bool     `yaml:"on,omitempty"`
	Lines []string `yaml:"lines,omitempty"`
	Path  string   `yaml:"path,omitempty"`
	Line  int32    `yaml:"line,omitempty"`
}

// ReplyStep answers ticket with stage executed or completed.
type ReplyStep struct {
	Ticket int32  `yaml:"ticket"`
	Stage  string `yaml:"stage"`
}

// NoticeStep uses levels error|text|display.
type NoticeStep struct {
	Level string `yaml:"level"`
	Text  string `yaml:"text"`
}

// Assertion validates the trace or the final state.
type Assertion struct {
	Type string `yaml:"type"`

	// Commands is the expected send order (sent_order).
	Commands []string `yaml:"commands,omitempty"`

	// Command is the command type (sent_count).
	Command string `yaml:"command,omitempty"`

	// Count is the expected number of occurrences (sent_count, notice_count).
	Count int `yaml:"count,omitempty"`

	// Ticket and State select a command and its final state (command_state).
	Ticket int32  `yaml:"ticket,omitempty"`
	State  string `yaml:"state,omitempty"`

	// Path and Value are a status path and its expected value (status).
	Path  string `yaml:"path,omitempty"`
	Value any    `yaml:"value,omitempty"`

	// Level is the notice level (notice_count).
	Level string `yaml:"level,omitempty"`
}

// Assertion type constants.
const (
	AssertSentOrder    = "sent_order"
	AssertSentCount    = "sent_count"
	AssertCommandState = "command_state"
	AssertSequenceDone = "sequence_done"
	AssertStatus       = "status"
	AssertNoticeCount  = "notice_count"
)

var (
	sendCommands  = []string{"estop", "estop_reset", "power_on", "power_off", "set_mode", "mdi", "home", "pause", "resume", "step", "abort"}
	sequenceNames = []string{"power", "home_all", "mdi", "load_program", "run_program"}
	replyStages   = []string{"executed", "completed"}
	noticeLevels  = []string{"error", "text", "display"}
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if err := validateStatus("status", &s.Status); err != nil {
		return err
	}
	for i, step := range s.Flow {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateStatus(where string, s *StatusStep) error {
	if s.Task != nil {
		if _, err := parseMode(s.Task.Mode); s.Task.Mode != "" && err != nil {
			return fmt.Errorf("%s.task: %w", where, err)
		}
		if _, err := parseState(s.Task.State); s.Task.State != "" && err != nil {
			return fmt.Errorf("%s.task: %w", where, err)
		}
	}
	return nil
}

func validateStep(i int, step *FlowStep) error {
	actions := 0
	for _, set := range []bool{
		step.Send != nil, step.Sequence != nil, step.Reply != nil,
		step.Status != nil, step.Notice != nil, len(step.ChannelError) > 0, step.Abort,
	} {
		if set {
			actions++
		}
	}
	if actions != 1 {
		return fmt.Errorf("flow[%d]: exactly one action is required, got %d", i, actions)
	}

	switch {
	case step.Send != nil:
		if !slices.Contains(sendCommands, step.Send.Command) {
			return fmt.Errorf("flow[%d].send: unknown command %q", i, step.Send.Command)
		}
		if step.Send.Command == "set_mode" {
			if _, err := parseMode(step.Send.Mode); err != nil {
				return fmt.Errorf("flow[%d].send: %w", i, err)
			}
		}
	case step.Sequence != nil:
		if !slices.Contains(sequenceNames, step.Sequence.Name) {
			return fmt.Errorf("flow[%d].sequence: unknown sequence %q", i, step.Sequence.Name)
		}
	case step.Reply != nil:
		if step.Reply.Ticket <= 0 {
			return fmt.Errorf("flow[%d].reply: ticket must be positive", i)
		}
		if !slices.Contains(replyStages, step.Reply.Stage) {
			return fmt.Errorf("flow[%d].reply: stage must be one of %v", i, replyStages)
		}
	case step.Status != nil:
		return validateStatus(fmt.Sprintf("flow[%d].status", i), step.Status)
	case step.Notice != nil:
		if !slices.Contains(noticeLevels, step.Notice.Level) {
			return fmt.Errorf("flow[%d].notice: level must be one of %v", i, noticeLevels)
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertSentOrder:
		if len(a.Commands) == 0 {
			return fmt.Errorf("assertions[%d]: commands list is required for sent_order", index)
		}
	case AssertSentCount:
		if a.Command == "" {
			return fmt.Errorf("assertions[%d]: command is required for sent_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for sent_count", index)
		}
	case AssertCommandState:
		if a.Ticket <= 0 || a.State == "" {
			return fmt.Errorf("assertions[%d]: ticket and state are required for command_state", index)
		}
	case AssertSequenceDone:
	case AssertStatus:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for status", index)
		}
	case AssertNoticeCount:
		if !slices.Contains(noticeLevels, a.Level) {
			return fmt.Errorf("assertions[%d]: level must be one of %v", index, noticeLevels)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
