package metrics

import (
	"github.com/forgechain/forge/foundation/blockchain/ledger"
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerCollector reads chain measurements off the running ledger every
// time prometheus scrapes the node.
type LedgerCollector struct {
	ledger       *ledger.Ledger
	chainHeight  *prometheus.Desc
	pendingDepth *prometheus.Desc
}

// NewLedgerCollector constructs a collector bound to the specified ledger.
func NewLedgerCollector(l *ledger.Ledger) *LedgerCollector {
	return &LedgerCollector{
		ledger: l,
		chainHeight: prometheus.NewDesc(
			prometheus.BuildFQName("forge", "chain", "height"),
			"Number of blocks in the chain.",
			nil,
			nil,
		),
		pendingDepth: prometheus.NewDesc(
			prometheus.BuildFQName("forge", "chain", "pending_transactions"),
			"Transactions waiting in the pending pool.",
			nil,
			nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *LedgerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.chainHeight
	ch <- c.pendingDepth
}

// Collect implements prometheus.Collector.
func (c *LedgerCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.chainHeight, prometheus.GaugeValue, float64(c.ledger.QueryChainLength()))
	ch <- prometheus.MustNewConstMetric(c.pendingDepth, prometheus.GaugeValue, float64(len(c.ledger.RetrievePendingTransactions())))
}
