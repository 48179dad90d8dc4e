// Package metrics instruments the engine with Prometheus collectors.
//
// Every method is safe to call on a nil *Metrics, so components take an
// optional *Metrics and never check it.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mksync"

// Metrics holds the engine's collectors.
type Metrics struct {
	commandsSent      *prometheus.CounterVec
	replies           *prometheus.CounterVec
	correlationMisses *prometheus.CounterVec
	decodeFailures    *prometheus.CounterVec
	statusUpdates     *prometheus.CounterVec
	notices           *prometheus.CounterVec
	connects          *prometheus.CounterVec
	terminations      *prometheus.CounterVec

	outstanding *prometheus.GaugeVec
	sequences   *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg. A nil reg yields
// unregistered collectors, which is what tests want.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		commandsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "dispatcher", Name: "commands_sent_total",
			Help: "Commands transmitted, by service.",
		}, []string{"service"}),
		replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "dispatcher", Name: "replies_total",
			Help: "Command replies matched to an outstanding ticket, by stage.",
		}, []string{"service", "stage"}),
		correlationMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "dispatcher", Name: "correlation_misses_total",
			Help: "Replies whose ticket matched no outstanding command.",
		}, []string{"service"}),
		decodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "transport", Name: "decode_failures_total",
			Help: "Inbound frames that could not be decoded.",
		}, []string{"service"}),
		statusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "status", Name: "updates_total",
			Help: "Status updates processed, by topic and outcome.",
		}, []string{"topic", "kind"}),
		notices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "operator", Name: "notices_total",
			Help: "Operator notices received, by level.",
		}, []string{"level"}),
		connects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "transport", Name: "connects_total",
			Help: "Services opened, including replacements of stale ones.",
		}, []string{"service"}),
		terminations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "transport", Name: "terminations_total",
			Help: "Services terminated by a channel-fatal error.",
		}, []string{"service"}),
		outstanding: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "dispatcher", Name: "outstanding_commands",
			Help: "Commands sent and not yet completed.",
		}, []string{"service"}),
		sequences: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "dispatcher", Name: "active_sequences",
			Help: "Command sequences still being tracked.",
		}, []string{"service"}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.commandsSent, m.replies, m.correlationMisses, m.decodeFailures,
		m.statusUpdates, m.notices, m.connects, m.terminations,
		m.outstanding, m.sequences,
	}
}

func (m *Metrics) CommandSent(service string) {
	if m == nil {
		return
	}
	m.commandsSent.WithLabelValues(service).Inc()
}

func (m *Metrics) Reply(service, stage string) {
	if m == nil {
		return
	}
	m.replies.WithLabelValues(service, stage).Inc()
}

func (m *Metrics) CorrelationMiss(service string) {
	if m == nil {
		return
	}
	m.correlationMisses.WithLabelValues(service).Inc()
}

func (m *Metrics) DecodeFailure(service string) {
	if m == nil {
		return
	}
	m.decodeFailures.WithLabelValues(service).Inc()
}

func (m *Metrics) StatusUpdate(topic, kind string) {
	if m == nil {
		return
	}
	m.statusUpdates.WithLabelValues(topic, kind).Inc()
}

func (m *Metrics) Notice(level string) {
	if m == nil {
		return
	}
	m.notices.WithLabelValues(level).Inc()
}

func (m *Metrics) Connect(service string) {
	if m == nil {
		return
	}
	m.connects.WithLabelValues(service).Inc()
}

func (m *Metrics) Terminated(service string) {
	if m == nil {
		return
	}
	m.terminations.WithLabelValues(service).Inc()
}

// Track records the dispatcher gauges for service.
func (m *Metrics) Track(service string, outstanding, sequences int) {
	if m == nil {
		return
	}
	m.outstanding.WithLabelValues(service).Set(float64(outstanding))
	m.sequences.WithLabelValues(service).Set(float64(sequences))
}

// Serve exposes g on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
