package manager

import (
	"time"

	"github.com/hangarhq/hangar/pkg/artifact"
	"github.com/hangarhq/hangar/pkg/metrics"
	"github.com/hangarhq/hangar/pkg/types"
)

// MetricsCollector periodically refreshes registry and deployment gauges
type MetricsCollector struct {
	manager *Manager
	stopCh  chan struct{}
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(mgr *Manager) *MetricsCollector {
	return &MetricsCollector{
		manager: mgr,
		stopCh:  make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *MetricsCollector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		// Collect immediately on start
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *MetricsCollector) Stop() {
	close(c.stopCh)
}

func (c *MetricsCollector) collect() {
	c.collectModelMetrics()
	c.collectSessionMetrics()
	c.collectDeploymentMetrics()
}

func (c *MetricsCollector) collectModelMetrics() {
	models, err := c.manager.ListModels()
	if err != nil {
		return
	}

	counts := make(map[types.ServiceType]int)
	for _, model := range models {
		counts[model.ServiceType]++
	}
	for serviceType, count := range counts {
		metrics.ModelsTotal.WithLabelValues(string(serviceType)).Set(float64(count))
	}
}

func (c *MetricsCollector) collectSessionMetrics() {
	sessions, err := c.manager.ListSessions()
	if err != nil {
		return
	}

	counts := make(map[types.SessionStatus]int)
	for _, session := range sessions {
		counts[session.Status]++
	}
	for status, count := range counts {
		metrics.SessionsTotal.WithLabelValues(string(status)).Set(float64(count))
	}
}

func (c *MetricsCollector) collectDeploymentMetrics() {
	names, err := c.manager.artifacts.List()
	if err != nil {
		return
	}

	counts := make(map[types.ServiceType]int)
	healthy := 0
	var totalMB float64

	for _, name := range names {
		cfg, err := artifact.ReadConfig(c.manager.artifacts.Path(name))
		if err != nil {
			continue
		}
		counts[cfg.ModelInfo.ServiceType]++
		totalMB += cfg.ModelFiles.ModelSizeMB

		if v, ok := c.manager.LastHealth(name); ok && v.Healthy() {
			healthy++
		}
	}

	for serviceType, count := range counts {
		metrics.DeploymentsTotal.WithLabelValues(string(serviceType)).Set(float64(count))
	}
	metrics.DeploymentsHealthy.Set(float64(healthy))
	metrics.DeploymentSizeMB.Set(totalMB)
}
