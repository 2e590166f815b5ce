package views

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"retaildash/events"
	"retaildash/insights"
	"retaildash/metrics"
	"retaildash/models"
)

// Registry owns the dashboards of all authenticated sessions.
type Registry struct {
	api         Backend
	bus         *events.Bus
	log         *zap.Logger
	insights    insights.Summarizer
	metrics     *metrics.Recorder
	idleTimeout time.Duration
	now         func() time.Time

	mu         sync.Mutex
	dashboards map[string]*Dashboard
}

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	API         Backend
	Bus         *events.Bus
	Log         *zap.Logger
	Insights    insights.Summarizer
	Metrics     *metrics.Recorder
	IdleTimeout time.Duration
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		api:         cfg.API,
		bus:         cfg.Bus,
		log:         log,
		insights:    cfg.Insights,
		metrics:     cfg.Metrics,
		idleTimeout: cfg.IdleTimeout,
		now:         time.Now,
		dashboards:  make(map[string]*Dashboard),
	}
}

// Get returns the dashboard of s, mounting a new one on first access. Idle dashboards
// are evicted first.
func (r *Registry) Get(ctx context.Context, s *models.Session) *Dashboard {
	r.evictIdle()

	r.mu.Lock()
	if d, ok := r.dashboards[s.ID]; ok {
		r.mu.Unlock()
		d.Touch()
		return d
	}
	r.mu.Unlock()

	d := NewDashboard(ctx, Env{
		API:      r.api,
		Session:  s,
		Bus:      r.bus,
		Log:      r.log.With(zap.String("user", s.Username)),
		Insights: r.insights,
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request of the same session may have mounted one meanwhile.
	if existing, ok := r.dashboards[s.ID]; ok {
		d.Close()
		return existing
	}
	r.dashboards[s.ID] = d
	r.metrics.SetActiveDashboards(len(r.dashboards))
	r.log.Info("Dashboard mounted", zap.String("user", s.Username))
	return d
}

// Drop closes and forgets the dashboard of sid.
func (r *Registry) Drop(sid string) {
	r.mu.Lock()
	d, ok := r.dashboards[sid]
	delete(r.dashboards, sid)
	r.metrics.SetActiveDashboards(len(r.dashboards))
	r.mu.Unlock()
	if ok {
		d.Close()
	}
}

// Len returns the number of mounted dashboards.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dashboards)
}

func (r *Registry) evictIdle() {
	if r.idleTimeout <= 0 {
		return
	}
	now := r.now()
	var idle []*Dashboard

	r.mu.Lock()
	for sid, d := range r.dashboards {
		if d.idleSince(now) > r.idleTimeout {
			idle = append(idle, d)
			delete(r.dashboards, sid)
		}
	}
	if len(idle) > 0 {
		r.metrics.SetActiveDashboards(len(r.dashboards))
	}
	r.mu.Unlock()

	for _, d := range idle {
		d.Close()
	}
	if len(idle) > 0 {
		r.log.Info("Evicted idle dashboards", zap.Int("count", len(idle)))
	}
}
