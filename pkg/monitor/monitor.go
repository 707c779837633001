package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hangarhq/hangar/pkg/events"
	"github.com/hangarhq/hangar/pkg/health"
	"github.com/hangarhq/hangar/pkg/log"
	"github.com/hangarhq/hangar/pkg/manager"
	"github.com/rs/zerolog"
)

// Monitor periodically probes every published deployment and publishes
// health-transition events. Verdicts are recorded on the manager so
// listings reuse them instead of forking a subprocess per entry.
type Monitor struct {
	manager *manager.Manager
	config  health.Config
	logger  zerolog.Logger
	stopCh  chan struct{}
	wg      sync.WaitGroup

	mu       sync.Mutex
	statuses map[string]*health.Status
	inflight map[string]bool
}

// New creates a Monitor for a manager
func New(mgr *manager.Manager, cfg health.Config) *Monitor {
	return &Monitor{
		manager:  mgr,
		config:   cfg,
		logger:   log.WithComponent("monitor"),
		stopCh:   make(chan struct{}),
		statuses: make(map[string]*health.Status),
		inflight: make(map[string]bool),
	}
}

// Start begins the probe loop
func (mon *Monitor) Start() {
	mon.wg.Add(1)
	go mon.run()
}

// Stop stops the probe loop and waits for it to finish. In-flight probes
// are abandoned; their subprocesses end on their own timeout.
func (mon *Monitor) Stop() {
	close(mon.stopCh)
	mon.wg.Wait()
}

// Status returns the tracked health status for a deployment
func (mon *Monitor) Status(name string) (*health.Status, bool) {
	mon.mu.Lock()
	defer mon.mu.Unlock()
	s, ok := mon.statuses[name]
	return s, ok
}

func (mon *Monitor) run() {
	defer mon.wg.Done()

	ticker := time.NewTicker(mon.config.Interval)
	defer ticker.Stop()

	mon.sweep()
	for {
		select {
		case <-ticker.C:
			mon.sweep()
		case <-mon.stopCh:
			return
		}
	}
}

// sweep probes every deployment that does not already have a probe in
// flight. A slow probe therefore skips cycles instead of stacking
// subprocesses.
func (mon *Monitor) sweep() {
	names, err := mon.manager.DeploymentNames()
	if err != nil {
		mon.logger.Warn().Err(err).Msg("failed to enumerate deployments")
		return
	}

	current := make(map[string]bool, len(names))
	for _, name := range names {
		current[name] = true
	}

	mon.mu.Lock()
	// Drop state for deployments that no longer exist
	for name := range mon.statuses {
		if !current[name] {
			delete(mon.statuses, name)
			delete(mon.inflight, name)
		}
	}

	var due []string
	for _, name := range names {
		if mon.inflight[name] {
			continue
		}
		if _, ok := mon.statuses[name]; !ok {
			mon.statuses[name] = health.NewStatus()
		}
		mon.inflight[name] = true
		due = append(due, name)
	}
	mon.mu.Unlock()

	for _, name := range due {
		mon.wg.Add(1)
		go mon.probe(name)
	}
}

func (mon *Monitor) probe(name string) {
	defer mon.wg.Done()
	defer func() {
		mon.mu.Lock()
		delete(mon.inflight, name)
		mon.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), mon.config.Timeout)
	defer cancel()

	verdict, err := mon.manager.HealthCheck(ctx, name)
	if err != nil {
		// Undeployed between sweep and probe
		if errors.Is(err, manager.ErrNotFound) {
			return
		}
		mon.logger.Warn().Err(err).Str("deployment", name).Msg("health probe failed")
		return
	}

	result := health.Result{
		Healthy:   verdict.Healthy(),
		Message:   verdict.Status,
		Verdict:   verdict,
		CheckedAt: verdict.CheckedAt,
	}

	mon.mu.Lock()
	status, ok := mon.statuses[name]
	if !ok {
		mon.mu.Unlock()
		return
	}
	wasHealthy := status.Healthy
	status.Update(result, mon.config)
	isHealthy := status.Healthy
	mon.mu.Unlock()

	if wasHealthy == isHealthy {
		return
	}

	eventType := events.EventDeploymentUnhealthy
	if isHealthy {
		eventType = events.EventDeploymentHealthy
	}
	mon.manager.Events().Publish(&events.Event{
		ID:      uuid.New().String(),
		Type:    eventType,
		Message: fmt.Sprintf("deployment %s is now %s", name, verdict.Status),
		Metadata: map[string]string{
			"deployment": name,
			"status":     verdict.Status,
		},
	})

	mon.logger.Info().
		Str("deployment", name).
		Bool("healthy", isHealthy).
		Msg("deployment health changed")
}
