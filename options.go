package prunetable

import "github.com/rs/zerolog"

const (
	// DefaultCompleteLimit is the largest domain stored as a dense array.
	DefaultCompleteLimit = 10_000_000

	// DefaultPartialCapacity is the entry cap of a partial table.
	DefaultPartialCapacity = 1_000_000

	// DefaultCacheSuffix is appended to the definition path to name the cache file.
	DefaultCacheSuffix = ".tables"

	// maxIgnored is the most positions a partial table may ignore at once.
	maxIgnored = 8
)

// Option configures Build, Load and ReadFile.
type Option func(*config)

type config struct {
	useCache       bool
	cacheSuffix    string
	logger         zerolog.Logger
	workers        int
	maxPermDomain  int64
	maxOriDomain   int64
	permCapacity   int
	oriCapacity    int
	prims          Primitives
	verifyChecksum bool
}

func defaultConfig() *config {
	return &config{
		useCache:       true,
		cacheSuffix:    DefaultCacheSuffix,
		logger:         zerolog.Nop(),
		workers:        0, // sequential; use WithWorkers(n) to build groups in parallel
		maxPermDomain:  DefaultCompleteLimit,
		maxOriDomain:   DefaultCompleteLimit,
		permCapacity:   DefaultPartialCapacity,
		oriCapacity:    DefaultPartialCapacity,
		prims:          DefaultPrimitives(),
		verifyChecksum: true,
	}
}

func newConfig(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.prims = cfg.prims.withDefaults()
	return cfg
}

// WithCache enables or disables reading and writing the cache file in Load.
func WithCache(enabled bool) Option {
	return func(c *config) {
		c.useCache = enabled
	}
}

// WithCacheSuffix sets the suffix appended to the definition path.
func WithCacheSuffix(suffix string) Option {
	return func(c *config) {
		c.cacheSuffix = suffix
	}
}

// WithLogger sets the logger for build progress. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithWorkers sets how many table axes are built concurrently.
// Values below 2 build sequentially.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithCompleteLimits sets the largest permutation and orientation domains
// built as dense arrays. Larger domains get partial tables.
//
// The limits also decide the cache layout, so a cache must be read with the
// limits it was written with.
func WithCompleteLimits(perm, ori int64) Option {
	return func(c *config) {
		c.maxPermDomain = perm
		c.maxOriDomain = ori
	}
}

// WithPartialCapacity sets the entry caps of partial permutation and
// orientation tables.
func WithPartialCapacity(perm, ori int) Option {
	return func(c *config) {
		c.permCapacity = perm
		c.oriCapacity = ori
	}
}

// WithPrimitives replaces the ranking, packing and move collaborators.
// Unset fields keep their defaults.
func WithPrimitives(p Primitives) Option {
	return func(c *config) {
		c.prims = p
	}
}

// WithChecksumValidation controls whether ReadFile rejects caches whose
// checksum does not match their contents. Enabled by default.
func WithChecksumValidation(enabled bool) Option {
	return func(c *config) {
		c.verifyChecksum = enabled
	}
}
