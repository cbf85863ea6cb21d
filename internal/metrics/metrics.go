package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application counters. The hot paths touch plain
// atomics; Prometheus reads them lazily through GaugeFunc collectors so
// scraping never contends with the frame loop.
type Metrics struct {
	// Frame pipeline
	FramesRead      atomic.Uint64
	FramesPublished atomic.Uint64
	FramesDropped   atomic.Uint64
	ReadErrors      atomic.Uint64
	DetectErrors    atomic.Uint64
	EncodeErrors    atomic.Uint64

	// Detection events
	DetectionsTotal atomic.Uint64
	EventsRecorded  atomic.Uint64
	EventsDeleted   atomic.Uint64
	SnapshotBytes   atomic.Uint64

	// HTTP surface
	StreamClients atomic.Int64

	registry *prometheus.Registry
}

// New creates a Metrics instance with its own Prometheus registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}
	m.register()
	return m
}

func (m *Metrics) register() {
	gauges := []struct {
		name string
		help string
		load func() float64
	}{
		{"cattracker_frames_read_total", "Frames read from the camera source",
			func() float64 { return float64(m.FramesRead.Load()) }},
		{"cattracker_frames_published_total", "Annotated frames published to stream viewers",
			func() float64 { return float64(m.FramesPublished.Load()) }},
		{"cattracker_frames_dropped_total", "Frames dropped for slow stream viewers",
			func() float64 { return float64(m.FramesDropped.Load()) }},
		{"cattracker_read_errors_total", "Camera read failures",
			func() float64 { return float64(m.ReadErrors.Load()) }},
		{"cattracker_detect_errors_total", "Detection passes that failed",
			func() float64 { return float64(m.DetectErrors.Load()) }},
		{"cattracker_encode_errors_total", "Frames that failed JPEG encoding",
			func() float64 { return float64(m.EncodeErrors.Load()) }},
		{"cattracker_detections_total", "Target-class detections across all frames",
			func() float64 { return float64(m.DetectionsTotal.Load()) }},
		{"cattracker_events_recorded_total", "Detection events appended to the store",
			func() float64 { return float64(m.EventsRecorded.Load()) }},
		{"cattracker_events_deleted_total", "Events removed by user action",
			func() float64 { return float64(m.EventsDeleted.Load()) }},
		{"cattracker_snapshot_bytes_total", "Bytes written to the captures directory",
			func() float64 { return float64(m.SnapshotBytes.Load()) }},
		{"cattracker_stream_clients", "Currently connected MJPEG viewers",
			func() float64 { return float64(m.StreamClients.Load()) }},
	}

	for _, g := range gauges {
		m.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Name: g.name, Help: g.help},
			g.load,
		))
	}
}

// Handler returns the Prometheus scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
