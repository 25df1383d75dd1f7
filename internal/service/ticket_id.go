package service

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/google/uuid"

	"github.com/spec-kit/delivery-issue-api/internal/config"
	"github.com/spec-kit/delivery-issue-api/internal/domain"
	"github.com/spec-kit/delivery-issue-api/internal/repository"
)

// FallbackAbbreviation prefixes ids of types missing from the registry.
const FallbackAbbreviation = "TK"

// IDGenerator assigns ticket identifiers.
type IDGenerator interface {
	Generate(ctx context.Context, typeKey string) (string, error)
}

// SequentialIDGenerator produces abbreviation+counter ids such as "DNR152".
// Counters start at a random value in [100,199] and grow by one per ticket,
// so ids are unique for as long as the counter store keeps its state.
type SequentialIDGenerator struct {
	registry *domain.Registry
	counters repository.CounterStore
	seed     func() int64
}

// NewSequentialIDGenerator builds a generator over the given counter state.
func NewSequentialIDGenerator(registry *domain.Registry, counters repository.CounterStore) *SequentialIDGenerator {
	return &SequentialIDGenerator{registry: registry, counters: counters, seed: randomSeed}
}

func (g *SequentialIDGenerator) Generate(ctx context.Context, typeKey string) (string, error) {
	abbreviation := FallbackAbbreviation
	if t, ok := g.registry.Resolve(typeKey); ok {
		abbreviation = t.Abbreviation
	}
	next, err := g.counters.Next(ctx, typeKey, g.seed)
	if err != nil {
		return "", fmt.Errorf("next ticket number for %q: %w", typeKey, err)
	}
	return abbreviation + strconv.FormatInt(next, 10), nil
}

func randomSeed() int64 {
	return 100 + rand.Int63n(100)
}

// UUIDGenerator produces random v4 UUIDs. Ids survive restarts and
// multiple instances without coordination but carry no category prefix.
type UUIDGenerator struct{}

func (UUIDGenerator) Generate(context.Context, string) (string, error) {
	return uuid.NewString(), nil
}

// NewIDGenerator selects the configured id strategy.
func NewIDGenerator(strategy string, registry *domain.Registry, counters repository.CounterStore) (IDGenerator, error) {
	switch strategy {
	case config.IDStrategySequential, "":
		return NewSequentialIDGenerator(registry, counters), nil
	case config.IDStrategyUUID:
		return UUIDGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown ticket id strategy %q", strategy)
	}
}
