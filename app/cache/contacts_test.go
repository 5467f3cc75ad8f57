package cache_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibast-solutions/ms-go-contacts/app/cache"
	"github.com/vibast-solutions/ms-go-contacts/app/entity"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	return mr, rc
}

func sampleContacts() []*entity.Contact {
	return []*entity.Contact{{
		ID:             1,
		OwnerID:        7,
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		PhoneNumber:    "+100000000",
		Birthday:       time.Date(1990, time.December, 10, 0, 0, 0, 0, time.UTC),
		AdditionalInfo: sql.NullString{String: "math", Valid: true},
	}}
}

func TestContactLists_RoundTrip(t *testing.T) {
	_, rc := newRedis(t)
	lists := cache.NewContactLists(rc, time.Minute)
	ctx := context.Background()

	_, ok := lists.GetList(ctx, 7, 0, 10)
	assert.False(t, ok)

	lists.SetList(ctx, 7, 0, 10, sampleContacts())

	got, ok := lists.GetList(ctx, 7, 0, 10)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "ada@example.com", got[0].Email)
	assert.True(t, got[0].Birthday.Equal(sampleContacts()[0].Birthday))
	assert.Equal(t, "math", got[0].AdditionalInfo.String)

	_, ok = lists.GetList(ctx, 7, 10, 10)
	assert.False(t, ok, "different page must miss")
	_, ok = lists.GetList(ctx, 8, 0, 10)
	assert.False(t, ok, "different owner must miss")
}

func TestContactLists_InvalidateDropsOwnerPages(t *testing.T) {
	_, rc := newRedis(t)
	lists := cache.NewContactLists(rc, time.Minute)
	ctx := context.Background()

	lists.SetList(ctx, 7, 0, 10, sampleContacts())
	lists.SetList(ctx, 8, 0, 10, sampleContacts())

	lists.Invalidate(ctx, 7)

	_, ok := lists.GetList(ctx, 7, 0, 10)
	assert.False(t, ok)
	_, ok = lists.GetList(ctx, 8, 0, 10)
	assert.True(t, ok)
}

func TestContactLists_EntriesExpire(t *testing.T) {
	mr, rc := newRedis(t)
	lists := cache.NewContactLists(rc, 600*time.Second)
	ctx := context.Background()

	lists.SetList(ctx, 7, 0, 10, sampleContacts())
	mr.FastForward(601 * time.Second)

	_, ok := lists.GetList(ctx, 7, 0, 10)
	assert.False(t, ok)
}

func TestContactLists_UnavailableRedisIsAMiss(t *testing.T) {
	mr, rc := newRedis(t)
	lists := cache.NewContactLists(rc, time.Minute)
	ctx := context.Background()

	mr.Close()

	lists.SetList(ctx, 7, 0, 10, sampleContacts())
	_, ok := lists.GetList(ctx, 7, 0, 10)
	assert.False(t, ok)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := cache.Connect(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	_ = client.Close()

	_, err = cache.Connect(context.Background(), "not a url")
	assert.Error(t, err)
}
