package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/delivery-issue-api/internal/config"
	"github.com/spec-kit/delivery-issue-api/internal/domain"
	"github.com/spec-kit/delivery-issue-api/internal/repository"
)

func TestSequentialIDsIncreaseByOnePerType(t *testing.T) {
	gen := NewSequentialIDGenerator(domain.DefaultRegistry(), repository.NewMemoryCounterStore())
	ctx := context.Background()

	var prev int64
	for i := 0; i < 20; i++ {
		id, err := gen.Generate(ctx, "dnr")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(id, "DNR"), id)

		n, err := strconv.ParseInt(strings.TrimPrefix(id, "DNR"), 10, 64)
		require.NoError(t, err)
		if i == 0 {
			assert.GreaterOrEqual(t, n, int64(101))
			assert.LessOrEqual(t, n, int64(200))
		} else {
			assert.Equal(t, prev+1, n)
		}
		prev = n
	}
}

func TestSequentialIDsAreIndependentPerType(t *testing.T) {
	gen := NewSequentialIDGenerator(domain.DefaultRegistry(), repository.NewMemoryCounterStore())
	gen.seed = func() int64 { return 100 }
	ctx := context.Background()

	for _, want := range []string{"RE101", "RE102"} {
		id, err := gen.Generate(ctx, "retraso_entrega")
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}
	id, err := gen.Generate(ctx, "sustraccion")
	require.NoError(t, err)
	assert.Equal(t, "SUS101", id)
}

func TestSequentialIDsFallBackForUnknownType(t *testing.T) {
	gen := NewSequentialIDGenerator(domain.DefaultRegistry(), repository.NewMemoryCounterStore())
	id, err := gen.Generate(context.Background(), "no_registrado")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^TK\d+$`), id)
}

func TestRandomSeedRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		s := randomSeed()
		require.GreaterOrEqual(t, s, int64(100))
		require.LessOrEqual(t, s, int64(199))
	}
}

type failingCounters struct{}

func (failingCounters) Next(context.Context, string, func() int64) (int64, error) {
	return 0, errors.New("redis down")
}
func (failingCounters) Ping(context.Context) error { return errors.New("redis down") }

func TestSequentialIDsPropagateCounterErrors(t *testing.T) {
	gen := NewSequentialIDGenerator(domain.DefaultRegistry(), failingCounters{})
	_, err := gen.Generate(context.Background(), "dnr")
	assert.ErrorContains(t, err, "redis down")
}

func TestUUIDGenerator(t *testing.T) {
	gen, err := NewIDGenerator(config.IDStrategyUUID, domain.DefaultRegistry(), nil)
	require.NoError(t, err)

	a, err := gen.Generate(context.Background(), "dnr")
	require.NoError(t, err)
	b, err := gen.Generate(context.Background(), "dnr")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	_, err = uuid.Parse(a)
	assert.NoError(t, err)
}

func TestNewIDGeneratorRejectsUnknownStrategy(t *testing.T) {
	_, err := NewIDGenerator("snowflake", domain.DefaultRegistry(), repository.NewMemoryCounterStore())
	assert.Error(t, err)

	gen, err := NewIDGenerator(config.IDStrategySequential, domain.DefaultRegistry(), repository.NewMemoryCounterStore())
	require.NoError(t, err)
	assert.IsType(t, &SequentialIDGenerator{}, gen)
}
