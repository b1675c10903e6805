// Package main implements the largemap command, a load driver that fills a
// LargeMap from generated keys or a key file and reports how the entries were
// spread over shards.
//
// Commands:
//
//	load    insert keys, optionally delete every Nth one, print a summary
//	config  print the effective configuration as YAML
//
// Configuration sources, lowest to highest priority: defaults, the file given
// with --config, LARGEMAP_* environment variables, command-line flags.
//
// Example usage:
//
//	# 50M synthetic keys with the default 2^24 shard limit
//	largemap load --keys 50000000
//
//	# Small limit, delete every 3rd key, YAML report plus metrics
//	largemap load --limit 1000 --keys 10000 --delete-every 3 -o yaml --metrics
//
//	# Keys from a file, one per line
//	largemap load --input keys.txt
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/dreamware/largemap/internal/config"
	"github.com/dreamware/largemap/internal/keygen"
	"github.com/dreamware/largemap/internal/metrics"
	"github.com/dreamware/largemap/internal/report"
	"github.com/dreamware/largemap/pkg/largemap"
)

// Build information, set via ldflags.
var Version = "dev"

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the CLI with explicit streams so tests can drive it.
func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "largemap",
		Usage:     "exercise a capacity-sharded map",
		Version:   Version,
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"LARGEMAP_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "load",
				Usage:  "fill a map and report its shard layout",
				Flags:  runFlags(),
				Action: runLoad,
			},
			{
				Name:   "config",
				Usage:  "print the effective configuration",
				Flags:  runFlags(),
				Action: runConfig,
			},
		},
	}
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"limit":        "limit",
	"keys":         "keys",
	"delete-every": "delete_every",
	"seed":         "seed",
	"input":        "input",
	"output":       "output",
	"metrics":      "metrics",
	"log-level":    "log_level",
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "limit", Usage: "maximum entries per shard"},
		&cli.IntFlag{Name: "keys", Aliases: []string{"n"}, Usage: "number of synthetic keys"},
		&cli.IntFlag{Name: "delete-every", Usage: "delete every Nth entry after loading (0 disables)"},
		&cli.Uint64Flag{Name: "seed", Usage: "synthetic key seed"},
		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "read keys from `FILE`, one per line (- for stdin)"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "report format: text, json, yaml"},
		&cli.BoolFlag{Name: "metrics", Usage: "append Prometheus metrics to the report"},
		&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn, error"},
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	overrides := make(map[string]any)
	for flag, key := range flagKeys {
		if c.IsSet(flag) {
			overrides[key] = c.Value(flag)
		}
	}

	loader := config.NewLoader(config.WithConfigFile(c.String("config")))
	cfg, err := loader.Load(overrides)
	if err != nil {
		return config.Config{}, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.Config, w io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "largemap",
		Level:  hclog.LevelFromString(cfg.LogLevel),
		Output: w,
	})
}

func runConfig(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	return report.Encode(c.App.Writer, "yaml", cfg)
}

func runLoad(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, c.App.ErrWriter)

	m, err := largemap.New[string, uint64](
		largemap.WithLimit(cfg.Limit),
		largemap.WithLogger(logger.Named("map")),
	)
	if err != nil {
		return err
	}

	start := time.Now()

	var inserted int
	if cfg.Input != "" {
		inserted, err = loadInput(c, cfg.Input, m)
		if err != nil {
			return err
		}
	} else {
		for i, key := range keygen.New(cfg.Seed).Keys(cfg.Keys) {
			m.Set(key, i)
			inserted++
		}
	}
	logger.Debug("inserted keys", "count", inserted, "shards", m.ShardCount())

	deleted := deleteEvery(m, cfg.DeleteEvery)
	if deleted > 0 {
		logger.Debug("deleted keys", "count", deleted, "shards", m.ShardCount())
	}

	summary := report.Summary{
		Limit:    m.Limit(),
		Inserted: inserted,
		Deleted:  deleted,
		Entries:  m.Len(),
		Shards:   m.ShardCount(),
		Elapsed:  time.Since(start),
		PerShard: m.Shards(),
	}
	logger.Info("load finished", "entries", summary.Entries, "shards", summary.Shards, "elapsed", summary.Elapsed)

	if err := report.Write(c.App.Writer, cfg.Output, summary); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if cfg.Metrics {
		reg := prometheus.NewRegistry()
		if err := reg.Register(metrics.NewCollector("load", m)); err != nil {
			return fmt.Errorf("register collector: %w", err)
		}
		if err := metrics.WriteText(c.App.Writer, reg); err != nil {
			return err
		}
	}
	return nil
}

// loadInput sets every line of path as a key whose value is its line number.
func loadInput(c *cli.Context, path string, m *largemap.LargeMap[string, uint64]) (int, error) {
	var r io.Reader = c.App.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return 0, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var n int
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m.Set(scanner.Text(), uint64(n))
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("read input: %w", err)
	}
	return n, nil
}

// deleteEvery removes every nth entry in iteration order, deleting while
// iterating. Returns the number of entries removed.
func deleteEvery[V any](m *largemap.LargeMap[string, V], n int) int {
	if n <= 0 {
		return 0
	}
	var i, deleted int
	for key := range m.Keys() {
		if i%n == 0 && m.Delete(key) {
			deleted++
		}
		i++
	}
	return deleted
}
