package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joostfarla/serverless-cors-plugin/internal/testutil"
)

func newTestClient(t *testing.T) (Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c := NewClient(testutil.NewTestLogger(), Config{Address: mr.Addr()})

	require.NoError(t, c.Start(testutil.NewTestContext(t)))
	t.Cleanup(func() { _ = c.Stop() })

	return c, mr
}

func TestClient_SetNX(t *testing.T) {
	ctx := testutil.NewTestContext(t)
	c, mr := newTestClient(t)

	ok, err := c.SetNX(ctx, "lock", "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "lock", "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	value, err := c.Get(ctx, "lock")
	require.NoError(t, err)
	assert.Equal(t, "a", value)
	assert.Equal(t, time.Minute, mr.TTL("lock"))
}

func TestClient_Get_Missing(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Get(testutil.NewTestContext(t), "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestClient_CompareAndDelete(t *testing.T) {
	ctx := testutil.NewTestContext(t)
	c, mr := newTestClient(t)

	require.NoError(t, mr.Set("lock", "owner"))

	deleted, err := c.CompareAndDelete(ctx, "lock", "someone-else")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.True(t, mr.Exists("lock"))

	deleted, err = c.CompareAndDelete(ctx, "lock", "owner")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, mr.Exists("lock"))
}

func TestClient_Start_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	c := NewClient(testutil.NewTestLogger(), Config{Address: addr, DialTimeout: 100 * time.Millisecond})

	err := c.Start(testutil.NewTestContext(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
