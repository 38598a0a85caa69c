package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCompute_CachesWithinTTL(t *testing.T) {
	c := New[string, int]()
	calls := 0
	compute := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := c.GetOrCompute("k", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = c.GetOrCompute("k", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls, "second read within TTL must hit the cache")
}

func TestGetOrCompute_RecomputesAfterExpiry(t *testing.T) {
	c := New[string, int]()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return now })

	calls := 0
	compute := func() (int, error) {
		calls++
		return calls, nil
	}

	v, err := c.GetOrCompute("k", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Minute)
	v, err = c.GetOrCompute("k", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, v, "expired entry must be recomputed")
}

func TestGetOrCompute_NeverCachesErrors(t *testing.T) {
	c := New[string, int]()
	calls := 0
	boom := errors.New("boom")

	_, err := c.GetOrCompute("k", time.Minute, func() (int, error) {
		calls++
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	v, err := c.GetOrCompute("k", time.Minute, func() (int, error) {
		calls++
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 2, calls, "a failed compute must not poison the key")
}

func TestInvalidate(t *testing.T) {
	c := New[string, string]()
	calls := 0
	compute := func() (string, error) {
		calls++
		return "v", nil
	}

	_, err := c.GetOrCompute("k", time.Minute, compute)
	require.NoError(t, err)

	c.Invalidate("k")

	_, err = c.GetOrCompute("k", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
