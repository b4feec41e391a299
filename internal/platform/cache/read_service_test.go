package cache

import (
	"context"
	"solution_share/internal/domain/repository"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReadService struct {
	repository.ReadService
	names        map[string]string
	problems     map[string]bool
	nameCalls    int
	problemCalls int
}

func (f *countingReadService) GetUserDisplayName(_ context.Context, userID string) (string, error) {
	f.nameCalls++
	return f.names[userID], nil
}

func (f *countingReadService) ProblemExists(_ context.Context, problemID string) (bool, error) {
	f.problemCalls++
	return f.problems[problemID], nil
}

func newCached(t *testing.T) (*CachedReadService, *countingReadService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	inner := &countingReadService{
		names:    map[string]string{"u1": "tourist"},
		problems: map[string]bool{"abc300_a": true},
	}
	return NewCachedReadService(inner, rdb, time.Minute, zerolog.Nop()), inner, mr
}

func TestDisplayNameIsCached(t *testing.T) {
	c, inner, mr := newCached(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		name, err := c.GetUserDisplayName(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "tourist", name)
	}
	assert.Equal(t, 1, inner.nameCalls)

	mr.FastForward(2 * time.Minute)
	_, err := c.GetUserDisplayName(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.nameCalls)

	c.ForgetUser(ctx, "u1")
	_, err = c.GetUserDisplayName(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, inner.nameCalls)
}

func TestProblemExistsCachesOnlyHits(t *testing.T) {
	c, inner, _ := newCached(t)
	ctx := context.Background()

	ok, err := c.ProblemExists(ctx, "abc300_a")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = c.ProblemExists(ctx, "abc300_a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, inner.problemCalls)

	for i := 0; i < 2; i++ {
		ok, err = c.ProblemExists(ctx, "abc999_z")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 3, inner.problemCalls)
}

func TestRedisOutageFallsBackToDatabase(t *testing.T) {
	c, inner, mr := newCached(t)
	mr.Close()

	name, err := c.GetUserDisplayName(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "tourist", name)

	ok, err := c.ProblemExists(context.Background(), "abc300_a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, inner.nameCalls)
	assert.Equal(t, 1, inner.problemCalls)
}
