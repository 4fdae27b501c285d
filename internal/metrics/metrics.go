// Package metrics exposes Prometheus metrics for the governance service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records governance metrics. It satisfies the recorder
// interfaces of the executor and the payout dispatcher.
type Collector struct {
	invocations *prometheus.CounterVec
	finalized   *prometheus.CounterVec
	payouts     *prometheus.CounterVec
	members     prometheus.Gauge
	treasury    prometheus.Gauge
}

// NewCollector creates a Collector and registers it with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workwise_invocations_total",
			Help: "Governance invocations by operation and result.",
		}, []string{"operation", "result"}),
		finalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workwise_proposals_finalized_total",
			Help: "Finalized proposals by outcome.",
		}, []string{"outcome"}),
		payouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workwise_payouts_total",
			Help: "Payouts reaching a terminal status.",
		}, []string{"status"}),
		members: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "workwise_active_members",
			Help: "Number of active members.",
		}),
		treasury: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "workwise_treasury_wei",
			Help: "Total deposited value held, in wei.",
		}),
	}

	reg.MustRegister(
		c.invocations,
		c.finalized,
		c.payouts,
		c.members,
		c.treasury,
	)

	return c
}

// RecordInvocation counts an invocation
func (c *Collector) RecordInvocation(operation, result string) {
	c.invocations.WithLabelValues(operation, result).Inc()
}

// RecordFinalized counts a finalized proposal
func (c *Collector) RecordFinalized(outcome string) {
	c.finalized.WithLabelValues(outcome).Inc()
}

// RecordPayout counts a payout that was sent or gave up
func (c *Collector) RecordPayout(status string) {
	c.payouts.WithLabelValues(status).Inc()
}

// SetMembership updates the membership gauges
func (c *Collector) SetMembership(active int, treasury uint64) {
	c.members.Set(float64(active))
	c.treasury.Set(float64(treasury))
}

// Handler returns the scrape handler for gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
