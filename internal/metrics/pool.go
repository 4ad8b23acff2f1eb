package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolCollector implements prometheus.Collector for pgxpool statistics.
// Stats are read on-demand during each Prometheus scrape; no polling goroutine.
type PoolCollector struct {
	pool *pgxpool.Pool

	acquireCount    *prometheus.Desc
	acquireDuration *prometheus.Desc
	acquiredConns   *prometheus.Desc
	idleConns       *prometheus.Desc
	maxConns        *prometheus.Desc
	newConnsCount   *prometheus.Desc
	totalConns      *prometheus.Desc
}

// NewPoolCollector creates a collector that exports pgxpool stats.
func NewPoolCollector(pool *pgxpool.Pool) *PoolCollector {
	return &PoolCollector{
		pool: pool,
		acquireCount: prometheus.NewDesc(
			"planttracker_pgxpool_acquire_count",
			"Cumulative count of successful connection acquires.",
			nil, nil,
		),
		acquireDuration: prometheus.NewDesc(
			"planttracker_pgxpool_acquire_duration_seconds",
			"Cumulative time spent acquiring connections.",
			nil, nil,
		),
		acquiredConns: prometheus.NewDesc(
			"planttracker_pgxpool_acquired_conns",
			"Number of currently acquired connections.",
			nil, nil,
		),
		idleConns: prometheus.NewDesc(
			"planttracker_pgxpool_idle_conns",
			"Number of idle connections in the pool.",
			nil, nil,
		),
		maxConns: prometheus.NewDesc(
			"planttracker_pgxpool_max_conns",
			"Maximum number of connections allowed.",
			nil, nil,
		),
		newConnsCount: prometheus.NewDesc(
			"planttracker_pgxpool_new_conns_count",
			"Cumulative count of new connections created.",
			nil, nil,
		),
		totalConns: prometheus.NewDesc(
			"planttracker_pgxpool_total_conns",
			"Total number of connections in the pool.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquireCount
	ch <- c.acquireDuration
	ch <- c.acquiredConns
	ch <- c.idleConns
	ch <- c.maxConns
	ch <- c.newConnsCount
	ch <- c.totalConns
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	stat := c.pool.Stat()

	ch <- prometheus.MustNewConstMetric(c.acquireCount, prometheus.GaugeValue, float64(stat.AcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.acquireDuration, prometheus.GaugeValue, stat.AcquireDuration().Seconds())
	ch <- prometheus.MustNewConstMetric(c.acquiredConns, prometheus.GaugeValue, float64(stat.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(stat.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.maxConns, prometheus.GaugeValue, float64(stat.MaxConns()))
	ch <- prometheus.MustNewConstMetric(c.newConnsCount, prometheus.GaugeValue, float64(stat.NewConnsCount()))
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(stat.TotalConns()))
}
