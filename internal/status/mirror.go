// Package status maintains a local mirror of the controller's status
// broadcast.
//
// The controller publishes five topics. Each topic starts invalid; the first
// full update rebuilds it from scratch and makes it valid. Incremental
// updates patch only the fields they carry and are dropped while the topic
// is still invalid. Every merge reports the dotted paths it touched, and
// observers are notified only when that list is non-empty.
//
// Values are reachable through typed accessors (Motion(), IO(), ...) or by
// dotted path through Lookup, e.g. "motion.axis.0.homed". A path that does
// not exist, or whose topic is not valid yet, yields (nil, false).
//
// Thread-safety: Mirror is owned by the pump goroutine. Observers run on it.
package status

import (
	"log/slog"
	"strings"

	"github.com/roach88/mksync/internal/notify"
	"github.com/roach88/mksync/internal/wire"
)

// Kind says what a processed container did to the mirror.
type Kind int

const (
	KindIgnored Kind = iota
	KindFull
	KindIncremental
	KindDropped
)

func (k Kind) String() string {
	switch k {
	case KindFull:
		return "full"
	case KindIncremental:
		return "incremental"
	case KindDropped:
		return "dropped"
	}
	return "ignored"
}

// Update is the outcome of Process.
type Update struct {
	Topic   wire.StatusTopic
	Kind    Kind
	Changed []string
}

// Observer receives the changed paths of one topic. The source passed to
// Changed is the topic name.
type Observer = notify.Observer[[]string]

// Mirror is the aggregate of all status topics.
type Mirror struct {
	logger *slog.Logger
	bus    notify.Bus[[]string]

	valid  map[wire.StatusTopic]bool
	config *Config
	motion *Motion
	io     *IO
	task   *Task
	interp *Interp
}

// New creates an empty, fully invalid mirror.
func New(logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{
		logger: logger.With("component", "status"),
		valid:  make(map[wire.StatusTopic]bool),
	}
}

// Process applies one status container.
func (m *Mirror) Process(c *wire.Container) Update {
	msg, ok := wire.Classify(c).(wire.StatusUpdate)
	if !ok {
		m.logger.Debug("ignoring container on status channel", "type", c.Type)
		return Update{Kind: KindIgnored}
	}

	u := Update{Topic: msg.Topic}
	switch {
	case msg.Full:
		u.Kind = KindFull
		u.Changed = m.full(msg.Topic, c)
		m.valid[msg.Topic] = true
	case !m.valid[msg.Topic]:
		m.logger.Warn("dropping incremental update before first full update", "topic", msg.Topic)
		u.Kind = KindDropped
		return u
	default:
		u.Kind = KindIncremental
		u.Changed = m.incremental(msg.Topic, c)
	}

	if len(u.Changed) > 0 {
		m.bus.Notify(string(msg.Topic), u.Changed)
	}
	return u
}

func (m *Mirror) full(topic wire.StatusTopic, c *wire.Container) []string {
	switch topic {
	case wire.TopicConfig:
		m.config = newConfig(c.EmcStatusConfig)
		return m.config.full(c.EmcStatusConfig)
	case wire.TopicMotion:
		m.motion = newMotion(c.EmcStatusMotion)
		return m.motion.full(c.EmcStatusMotion)
	case wire.TopicIO:
		m.io = newIO(c.EmcStatusIO)
		return m.io.full(c.EmcStatusIO)
	case wire.TopicTask:
		m.task = &Task{}
		return m.task.merge(c.EmcStatusTask)
	case wire.TopicInterp:
		m.interp = newInterp()
		return m.interp.full(c.EmcStatusInterp)
	}
	return nil
}

func (m *Mirror) incremental(topic wire.StatusTopic, c *wire.Container) []string {
	switch topic {
	case wire.TopicConfig:
		return m.config.merge(c.EmcStatusConfig)
	case wire.TopicMotion:
		return m.motion.merge(c.EmcStatusMotion)
	case wire.TopicIO:
		return m.io.merge(c.EmcStatusIO)
	case wire.TopicTask:
		return m.task.merge(c.EmcStatusTask)
	case wire.TopicInterp:
		return m.interp.merge(c.EmcStatusInterp)
	}
	return nil
}

// IsValid reports whether every given topic has received a full update.
// With no topics it checks all of them.
func (m *Mirror) IsValid(topics ...wire.StatusTopic) bool {
	if len(topics) == 0 {
		topics = wire.StatusTopics
	}
	for _, t := range topics {
		if !m.valid[t] {
			return false
		}
	}
	return true
}

// Reset invalidates every topic. The next full update rebuilds it.
func (m *Mirror) Reset() {
	m.valid = make(map[wire.StatusTopic]bool)
	m.config, m.motion, m.io, m.task, m.interp = nil, nil, nil, nil, nil
}

// Attach registers obs for the given topics, or for all topics.
func (m *Mirror) Attach(obs Observer, topics ...wire.StatusTopic) {
	sources := make([]string, len(topics))
	for i, t := range topics {
		sources[i] = string(t)
	}
	m.bus.Attach(obs, sources...)
}

func (m *Mirror) Detach(obs Observer) {
	m.bus.Detach(obs)
}

// Typed accessors return nil until the topic is valid.

func (m *Mirror) Config() *Config { return m.config }
func (m *Mirror) Motion() *Motion { return m.motion }
func (m *Mirror) IO() *IO         { return m.io }
func (m *Mirror) Task() *Task     { return m.task }
func (m *Mirror) Interp() *Interp { return m.interp }

func (m *Mirror) root(topic wire.StatusTopic) node {
	if !m.valid[topic] {
		return nil
	}
	switch topic {
	case wire.TopicConfig:
		return m.config
	case wire.TopicMotion:
		return m.motion
	case wire.TopicIO:
		return m.io
	case wire.TopicTask:
		return m.task
	case wire.TopicInterp:
		return m.interp
	}
	return nil
}

// Lookup resolves a dotted path such as "io.tool.nr". A leading "status."
// is accepted.
func (m *Mirror) Lookup(path string) (any, bool) {
	path = strings.TrimPrefix(path, "status.")
	if path == "" {
		return nil, false
	}
	parts := strings.Split(path, ".")
	n := m.root(wire.StatusTopic(parts[0]))
	if n == nil {
		return nil, false
	}
	return n.lookup(parts[1:])
}
