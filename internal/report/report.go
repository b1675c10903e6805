// Package report renders the outcome of a load run as a text table, JSON or
// YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dreamware/largemap/pkg/largemap"
)

// Summary describes a finished run.
type Summary struct {
	Limit    int                  `json:"limit" yaml:"limit"`
	Inserted int                  `json:"inserted" yaml:"inserted"`
	Deleted  int                  `json:"deleted" yaml:"deleted"`
	Entries  int                  `json:"entries" yaml:"entries"`
	Shards   int                  `json:"shards" yaml:"shards"`
	Elapsed  time.Duration        `json:"elapsed_ns" yaml:"elapsed"`
	PerShard []largemap.ShardInfo `json:"per_shard" yaml:"per_shard"`
}

// Write renders s in format: text, json or yaml.
func Write(w io.Writer, format string, s Summary) error {
	if format == "text" {
		return writeText(w, s)
	}
	return Encode(w, format, s)
}

// Encode writes v as json or yaml.
func Encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func writeText(w io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "limit\t%d\n", s.Limit)
	fmt.Fprintf(tw, "inserted\t%d\n", s.Inserted)
	fmt.Fprintf(tw, "deleted\t%d\n", s.Deleted)
	fmt.Fprintf(tw, "entries\t%d\n", s.Entries)
	fmt.Fprintf(tw, "shards\t%d\n", s.Shards)
	fmt.Fprintf(tw, "elapsed\t%s\n", s.Elapsed)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "INDEX\tID\tSTATE\tLEN\tGETS\tPUTS\tDELETES")
	for _, sh := range s.PerShard {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%d\t%d\t%d\n",
			sh.Index, sh.ID, sh.State, sh.Len, sh.Gets, sh.Puts, sh.Deletes)
	}
	return tw.Flush()
}
