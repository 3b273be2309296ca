// Package metrics provides Prometheus metrics for a workspace session.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brettbedarf/webedit/workspace"
)

// Metrics holds one set of collectors registered with a single registry.
type Metrics struct {
	eventsTotal      *prometheus.CounterVec
	persistTotal     *prometheus.CounterVec
	snapshotBytes    prometheus.Gauge
	workspaceFiles   prometheus.Gauge
	workspaceFolders prometheus.Gauge
	mountReadsTotal  prometheus.Counter
	mountBytesRead   prometheus.Counter
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer
// to expose them through [Handler] with the default gatherer.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		eventsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webedit_events_total",
				Help: "Total workspace events emitted",
			},
			[]string{"event"},
		),
		persistTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webedit_persist_total",
				Help: "Total snapshot writes to the key-value store",
			},
			[]string{"result"},
		),
		snapshotBytes: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "webedit_snapshot_bytes",
				Help: "Size of the last snapshot written",
			},
		),
		workspaceFiles: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "webedit_workspace_files",
				Help: "Number of files in the workspace",
			},
		),
		workspaceFolders: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "webedit_workspace_folders",
				Help: "Number of folders in the workspace",
			},
		),
		mountReadsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "webedit_mount_reads_total",
				Help: "Total file reads served by the read-only mount",
			},
		),
		mountBytesRead: f.NewCounter(
			prometheus.CounterOpts{
				Name: "webedit_mount_bytes_read_total",
				Help: "Total bytes served by the read-only mount",
			},
		),
	}
}

// Handler returns the metrics HTTP handler for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ObservePersist matches [workspace.WithPersistObserver].
func (m *Metrics) ObservePersist(bytes int, err error) {
	if err != nil {
		m.persistTotal.WithLabelValues("error").Inc()
		return
	}
	m.persistTotal.WithLabelValues("ok").Inc()
	m.snapshotBytes.Set(float64(bytes))
}

// Attach counts every event of store and keeps the size gauges current.
func (m *Metrics) Attach(store *workspace.Store) workspace.Subscription {
	m.setSizes(store)
	return store.Events().SubscribeAll(func(e workspace.Event) {
		m.eventsTotal.WithLabelValues(e.EventName()).Inc()
		m.setSizes(store)
	})
}

func (m *Metrics) setSizes(store *workspace.Store) {
	files, folders := store.Len()
	m.workspaceFiles.Set(float64(files))
	m.workspaceFolders.Set(float64(folders))
}

// RecordMountRead records one read served by the mount.
func (m *Metrics) RecordMountRead(bytes int) {
	m.mountReadsTotal.Inc()
	m.mountBytesRead.Add(float64(bytes))
}
