package generator

import (
	"math/rand/v2"
	"sync/atomic"

	"github.com/mockingj/mockingj/pkg/schema"
)

// engine is the shared core behind every strategy: it owns the configured
// seed, derives per-schema rng streams, and dispatches recursive
// generation for nested schemas. Strategies constructed from the same
// coordinator share one engine.
type engine struct {
	seed     uint64
	resolver Resolver
	// enumDraws advances on every enum selection so repeated draws against
	// the same schema can reach more than one enumerated value.
	enumDraws atomic.Uint64
}

func newEngine(seed int64) *engine {
	return &engine{seed: uint64(seed)}
}

// rngFor returns a fresh deterministic rng for one Generate call, keyed by
// (seed, schema fingerprint). Identical schema and seed always yield the
// identical stream, independent of call ordering or concurrency.
func (e *engine) rngFor(s *schema.Schema) *rand.Rand {
	return rand.New(rand.NewPCG(e.seed, fingerprintSeed(s)))
}

// generate dispatches a schema to its type-specific generation routine,
// threading the caller's rng so one Generate call draws from one stream.
func (e *engine) generate(s *schema.Schema, r *rand.Rand) (any, error) {
	if s == nil {
		return nil, &GeneratorError{Prefix: ErrMissingSchema}
	}
	if s.Ref != "" {
		resolved, err := e.resolve(s)
		if err != nil {
			return nil, err
		}
		return e.generate(resolved, r)
	}

	switch s.Type {
	case schema.TypeString:
		return e.genString(s, r)
	case schema.TypeInteger, schema.TypeNumber:
		return e.genNumber(s, r)
	case schema.TypeBoolean:
		return e.genBoolean(s, r)
	case schema.TypeArray:
		return e.genArray(s, r)
	case schema.TypeObject:
		return e.genObject(s, r)
	case schema.TypeNull:
		return nil, nil
	default:
		return nil, genErr(ErrUnsupportedType, "%q", s.Type)
	}
}

// resolve follows reference chains through the configured resolver.
// Cycles are rejected upstream by the parser, so the chain is finite; the
// cap only guards against a misbehaving resolver.
func (e *engine) resolve(s *schema.Schema) (*schema.Schema, error) {
	const maxChain = 32
	cur := s
	for i := 0; cur.Ref != ""; i++ {
		if e.resolver == nil {
			return nil, genErr(ErrMissingSchema, "unresolved reference %q", cur.Ref)
		}
		if i >= maxChain {
			return nil, genErr(ErrMissingSchema, "reference chain too deep at %q", cur.Ref)
		}
		next, err := e.resolver.Resolve(cur.Ref)
		if err != nil || next == nil {
			return nil, genErr(ErrMissingSchema, "unresolved reference %q", cur.Ref)
		}
		cur = next
	}
	return cur, nil
}

func (e *engine) genBoolean(_ *schema.Schema, r *rand.Rand) (any, error) {
	return r.IntN(2) == 1, nil
}

// pickEnum selects an enumerated value using the advancing draw counter.
func (e *engine) pickEnum(enum []any) any {
	idx := e.enumDraws.Add(1) - 1
	return enum[int(idx%uint64(len(enum)))]
}
