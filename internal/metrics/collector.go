package metrics

import (
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/dreamware/largemap/pkg/largemap"
)

const namespace = "largemap"

// Source is the read side of a LargeMap that the collector needs.
// *largemap.LargeMap satisfies it for any key and value types.
type Source interface {
	Len() int
	ShardCount() int
	Limit() int
	Shards() []largemap.ShardInfo
}

// Collector implements prometheus.Collector for one LargeMap.
type Collector struct {
	src Source

	entries      *prometheus.Desc
	shards       *prometheus.Desc
	limit        *prometheus.Desc
	shardEntries *prometheus.Desc
	shardOps     *prometheus.Desc
}

// NewCollector creates a collector reading from src. name becomes the value
// of the constant "map" label so several maps can share a registry.
func NewCollector(name string, src Source) *Collector {
	labels := prometheus.Labels{"map": name}
	return &Collector{
		src: src,
		entries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "entries"),
			"Number of entries across all shards.",
			nil, labels),
		shards: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "shards"),
			"Number of shards in the sequence.",
			nil, labels),
		limit: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "shard", "limit"),
			"Maximum number of entries per shard.",
			nil, labels),
		shardEntries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "shard", "entries"),
			"Number of entries held by a shard.",
			[]string{"shard"}, labels),
		shardOps: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "shard", "operations_total"),
			"Operations routed to a shard, hits and misses alike.",
			[]string{"shard", "op"}, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.shards
	ch <- c.limit
	ch <- c.shardEntries
	ch <- c.shardOps
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.src.Len()))
	ch <- prometheus.MustNewConstMetric(c.shards, prometheus.GaugeValue, float64(c.src.ShardCount()))
	ch <- prometheus.MustNewConstMetric(c.limit, prometheus.GaugeValue, float64(c.src.Limit()))

	for _, s := range c.src.Shards() {
		id := strconv.FormatUint(s.ID, 10)
		ch <- prometheus.MustNewConstMetric(c.shardEntries, prometheus.GaugeValue, float64(s.Len), id)
		ch <- prometheus.MustNewConstMetric(c.shardOps, prometheus.CounterValue, float64(s.Gets), id, "get")
		ch <- prometheus.MustNewConstMetric(c.shardOps, prometheus.CounterValue, float64(s.Puts), id, "put")
		ch <- prometheus.MustNewConstMetric(c.shardOps, prometheus.CounterValue, float64(s.Deletes), id, "delete")
	}
}

// WriteText gathers g and writes every metric family in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
