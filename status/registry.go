package status

import "sync/atomic"

// Metric keys written by the scheduler and its subsystems
const (
	KeyFrame          = "engine.frame"
	KeyQueueDepth     = "engine.queue_depth"
	KeyQueueHighWater = "engine.queue_high_water"
	KeyEventsApplied  = "engine.events_applied"
	KeyHandlerPanics  = "engine.handler_panics"
	KeyScriptsActive  = "engine.scripts_active"
	KeyPaused         = "engine.paused"
	KeyFrameMillis    = "engine.frame_ms"
	KeyRoom           = "scene.room"
	KeyTimersActive   = "scene.timers_active"
	KeyTracksActive   = "scene.tracks_active"
	KeyPlaybacks      = "scene.playbacks"
	KeyDialogState    = "scene.dialog"
	KeyObservers      = "network.observers"
	KeyAudioEnabled   = "audio.enabled"
)

// Registry is the central metrics facade
// Subsystems cache pointers at construction; frame loops write the atomics directly
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns the number of metrics across all kinds
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot copies every metric into a flat map for export
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.TotalCount())
	r.Bools.Range(func(k string, p *atomic.Bool) { out[k] = p.Load() })
	r.Ints.Range(func(k string, p *atomic.Int64) { out[k] = p.Load() })
	r.Floats.Range(func(k string, p *AtomicFloat) { out[k] = p.Get() })
	r.Strings.Range(func(k string, p *AtomicString) { out[k] = p.Load() })
	return out
}
