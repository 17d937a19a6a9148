package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/gophreg/internal/common"
	"github.com/dmitrijs2005/gophreg/internal/server/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_SaveLoadDestroy(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	s := NewRedisStore(rdb, "", time.Hour)

	sess := models.NewRegistrationSession("abc", time.Now())
	sess.UserID = "u-1"
	sess.FirstName = "John"
	sess.LastName = "Doe"
	require.NoError(t, s.Save(ctx, sess))

	assert.True(t, mr.Exists(defaultKeyPrefix+"abc"))
	assert.Equal(t, time.Hour, mr.TTL(defaultKeyPrefix+"abc"))

	got, err := s.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, models.StageHasName, got.Stage())

	require.NoError(t, s.Destroy(ctx, "abc"))
	_, err = s.Load(ctx, "abc")
	assert.ErrorIs(t, err, common.ErrSessionNotFound)

	// Destroying twice is fine.
	assert.NoError(t, s.Destroy(ctx, "abc"))
}

func TestRedisStore_Expires(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	s := NewRedisStore(rdb, "test:", time.Minute)

	require.NoError(t, s.Save(ctx, models.NewRegistrationSession("x", time.Now())))
	mr.FastForward(2 * time.Minute)

	_, err := s.Load(ctx, "x")
	assert.ErrorIs(t, err, common.ErrSessionNotFound)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	s := NewRedisStore(rdb, "test:", time.Minute)

	require.NoError(t, mr.Set("test:bad", "{not json"))

	_, err := s.Load(ctx, "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrSessionNotFound)
}

func TestRedisStore_Unavailable(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	s := NewRedisStore(rdb, "test:", time.Minute)
	mr.Close()

	_, err := s.Load(ctx, "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrSessionNotFound)
	assert.Error(t, s.Save(ctx, models.NewRegistrationSession("x", time.Now())))
	assert.Error(t, s.Destroy(ctx, "x"))
}

func TestNewID(t *testing.T) {
	a, err := NewID()
	require.NoError(t, err)
	b, err := NewID()
	require.NoError(t, err)

	assert.Len(t, a, 2*idSize)
	assert.NotEqual(t, a, b)
}
