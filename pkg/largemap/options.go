package largemap

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// DefaultLimit is the per-shard capacity used when WithLimit is not given.
// It matches the element ceiling of the largest common runtime map
// implementations (2^24 entries).
const DefaultLimit = 1 << 24

// Option configures a LargeMap at construction time.
type Option func(*config)

type config struct {
	limit  int
	logger hclog.Logger
}

func defaultConfig() *config {
	return &config{
		limit:  DefaultLimit,
		logger: hclog.NewNullLogger(),
	}
}

func (c *config) validate() error {
	if c.limit <= 0 {
		return fmt.Errorf("%w: shard limit must be positive, got %d", ErrInvalidConfiguration, c.limit)
	}
	return nil
}

// WithLimit sets the maximum number of entries a shard may hold before a new
// tail shard is started.
func WithLimit(n int) Option {
	return func(c *config) {
		c.limit = n
	}
}

// WithLogger sets the logger used for shard lifecycle events (tail appended,
// shard compacted, map cleared). Entry-level operations are never logged.
// A nil logger keeps the default null logger.
func WithLogger(logger hclog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
