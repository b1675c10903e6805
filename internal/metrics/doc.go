// Package metrics exposes the shape of a LargeMap as Prometheus metrics.
//
// Collector is a pull-based prometheus.Collector: nothing is recorded on the
// map's hot path, every scrape reads Len, ShardCount and Shards directly.
// Because a LargeMap is single-threaded, scrapes must be serialised with
// writes by the caller; the CLI only gathers after its workload finished.
//
// Exported series (all carry a constant "map" label):
//
//	largemap_entries                       gauge
//	largemap_shards                        gauge
//	largemap_shard_limit                   gauge
//	largemap_shard_entries{shard}          gauge
//	largemap_shard_operations_total{shard,op} counter  (op = get|put|delete)
package metrics
