package depot

import (
	"fmt"
	"io"
	"maps"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/TheBitDrifter/depot/pool"
)

// Config holds package-wide defaults applied to every new registry.
var Config config = config{logger: zap.NewNop()}

type config struct {
	logger *zap.Logger
}

// SetLogger sets the logger used by registries that are not given one.
func (c *config) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	c.logger = l
}

// Options tunes a registry. The zero value of a field selects its default.
type Options struct {
	// BlockBytes is the byte budget of one pool block.
	BlockBytes int `yaml:"block_bytes" json:"block_bytes"`
	// FilterCacheSize bounds the number of parsed filters kept per registry.
	FilterCacheSize int `yaml:"filter_cache_size" json:"filter_cache_size"`
	// ComplementOverEntities makes '!' complement over live entities instead
	// of over the kind-slot count.
	ComplementOverEntities bool `yaml:"complement_over_entities" json:"complement_over_entities"`
	// LogLevel builds a development logger at this level when no logger is supplied.
	LogLevel string `yaml:"log_level" json:"log_level"`
	// SizeHints maps kind names to expected value counts.
	SizeHints map[string]int `yaml:"size_hints" json:"size_hints"`
}

const defaultFilterCacheSize = 128

func DefaultOptions() Options {
	return Options{
		BlockBytes:      pool.DefaultBlockBytes,
		FilterCacheSize: defaultFilterCacheSize,
	}
}

// LoadOptions decodes YAML options from r on top of DefaultOptions.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&opts); err != nil && err != io.EOF {
		return Options{}, fmt.Errorf("failed to decode options: %w", err)
	}
	return opts.normalized(), nil
}

func (o Options) normalized() Options {
	if o.BlockBytes <= 0 {
		o.BlockBytes = pool.DefaultBlockBytes
	}
	if o.BlockBytes > pool.MaxBlockBytes {
		o.BlockBytes = pool.MaxBlockBytes
	}
	if o.FilterCacheSize <= 0 {
		o.FilterCacheSize = defaultFilterCacheSize
	}
	return o
}

func (o Options) buildLogger() (*zap.Logger, error) {
	if o.LogLevel == "" {
		return Config.logger, nil
	}
	level, err := zapcore.ParseLevel(o.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", o.LogLevel, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableCaller = true
	return cfg.Build()
}

// Option configures a registry built by the Factory.
type Option func(*settings)

type settings struct {
	opts   Options
	logger *zap.Logger
}

func WithOptions(o Options) Option {
	return func(s *settings) {
		hints := s.opts.SizeHints
		s.opts = o
		s.opts.SizeHints = maps.Clone(o.SizeHints)
		if s.opts.SizeHints == nil {
			s.opts.SizeHints = hints
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithSizeHints advises per-kind block capacities before first use.
func WithSizeHints(hints map[string]int) Option {
	return func(s *settings) {
		if s.opts.SizeHints == nil {
			s.opts.SizeHints = make(map[string]int, len(hints))
		}
		for k, n := range hints {
			s.opts.SizeHints[k] = n
		}
	}
}
