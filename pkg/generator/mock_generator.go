package generator

import (
	"log/slog"
	"sync"

	"github.com/mockingj/mockingj/pkg/cache"
	"github.com/mockingj/mockingj/pkg/logging"
	"github.com/mockingj/mockingj/pkg/schema"
)

// Resolver looks up the schema a reference points at. The parser supplies
// an index-backed implementation; reference cycles are rejected there
// before any schema reaches the generation engine.
type Resolver interface {
	Resolve(ref string) (*schema.Schema, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ref string) (*schema.Schema, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ref string) (*schema.Schema, error) { return f(ref) }

// MockDataGenerator dispatches schemas to per-kind strategies and
// mediates the fingerprint-keyed cache. It is safe for concurrent use.
type MockDataGenerator struct {
	mu         sync.RWMutex
	strategies map[string]Strategy

	cache      *cache.Manager
	consistent bool

	engine *engine
	log    *slog.Logger
}

// Option configures a MockDataGenerator.
type Option func(*MockDataGenerator)

// WithSeed sets the seed driving all generation determinism.
func WithSeed(seed int64) Option {
	return func(g *MockDataGenerator) { g.engine.seed = uint64(seed) }
}

// WithResolver sets the reference resolver used for top-level and nested
// $ref substitution.
func WithResolver(r Resolver) Option {
	return func(g *MockDataGenerator) { g.engine.resolver = r }
}

// WithConsistentResponses controls caching: when false the cache is
// bypassed entirely and every call regenerates.
func WithConsistentResponses(consistent bool) Option {
	return func(g *MockDataGenerator) { g.consistent = consistent }
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(g *MockDataGenerator) {
		if log != nil {
			g.log = log
		}
	}
}

// NewMockDataGenerator creates a coordinator with the default strategies
// for string, number, integer, boolean, array, object, and null schemas.
// A nil cache manager disables caching.
func NewMockDataGenerator(cm *cache.Manager, opts ...Option) *MockDataGenerator {
	g := &MockDataGenerator{
		strategies: make(map[string]Strategy),
		cache:      cm,
		consistent: true,
		engine:     newEngine(1),
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	// Default strategies share the coordinator's engine so they agree on
	// seed, resolver, and the enum draw counter.
	g.strategies[schema.TypeString] = &StringGenerator{e: g.engine}
	g.strategies[schema.TypeNumber] = &NumberGenerator{e: g.engine}
	g.strategies[schema.TypeInteger] = &NumberGenerator{e: g.engine}
	g.strategies[schema.TypeBoolean] = &BooleanGenerator{e: g.engine}
	g.strategies[schema.TypeArray] = &ArrayGenerator{e: g.engine}
	g.strategies[schema.TypeObject] = &ObjectGenerator{e: g.engine}
	g.strategies[schema.TypeNull] = NullGenerator{}
	return g
}

// RegisterGenerator adds or replaces the strategy for a schema kind.
// Custom kinds extend coverage without modifying the coordinator.
func (g *MockDataGenerator) RegisterGenerator(kind string, s Strategy) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.strategies[kind] = s
}

// CacheKey returns the structural fingerprint used as the cache key for
// a schema.
func (g *MockDataGenerator) CacheKey(s *schema.Schema) string {
	return Fingerprint(s)
}

// GenerateData produces a value for the schema. Structurally identical
// schemas return the identical cached value while caching is enabled.
func (g *MockDataGenerator) GenerateData(s *schema.Schema) (any, error) {
	if s == nil {
		return nil, &GeneratorError{Prefix: ErrMissingSchema}
	}

	if s.Ref != "" {
		resolved, err := g.engine.resolve(s)
		if err != nil {
			return nil, err
		}
		s = resolved
	}

	g.mu.RLock()
	strat, ok := g.strategies[s.Type]
	g.mu.RUnlock()
	if !ok {
		return nil, genErr(ErrUnsupportedType, "%q", s.Type)
	}

	if s.Format != "" {
		if fs, check := strat.(FormatSupporter); check && !fs.SupportsFormat(s.Format) {
			return nil, genErr(ErrUnsupportedFormat, "%q for type %q", s.Format, s.Type)
		}
	}

	useCache := g.cache != nil && g.consistent
	var key string
	if useCache {
		key = Fingerprint(s)
		if v, hit := g.cache.GetCachedValue(key); hit {
			g.log.Debug("cache hit", "type", s.Type, "key", key)
			return v, nil
		}
	}

	v, err := strat.Generate(s)
	if err != nil {
		return nil, err
	}
	if useCache {
		g.cache.Set(key, v)
	}
	g.log.Debug("generated value", "type", s.Type, "format", s.Format)
	return v, nil
}
