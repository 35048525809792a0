package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abplan/abplan-backend/internal/compliance/domain"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	require.NoError(t, client.Ping(context.Background()).Err())

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func verdict(projectID, sig, status string) *domain.Verdict {
	return &domain.Verdict{
		ProjectID: projectID,
		Signature: sig,
		Response: domain.ValidationResponse{
			InstallationID:   projectID,
			GlobalCompliance: domain.GlobalCompliance{OverallStatus: status, Violations: []domain.Violation{}},
			RoomResults:      []domain.RoomResult{},
		},
		ComputedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestVerdictCache_PutGetLatest(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewVerdictCache(client, time.Hour)
	ctx := context.Background()

	_, err := cache.Latest(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrVerdictNotFound)

	require.NoError(t, cache.Put(ctx, verdict("p1", "sig-a", domain.StatusNonCompliant)))
	require.NoError(t, cache.Put(ctx, verdict("p1", "sig-b", domain.StatusCompliant)))

	got, err := cache.Get(ctx, "p1", "sig-a")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNonCompliant, got.Response.GlobalCompliance.OverallStatus)

	latest, err := cache.Latest(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "sig-b", latest.Signature)
	assert.True(t, latest.Compliant())

	_, err = cache.Get(ctx, "p2", "sig-a")
	assert.ErrorIs(t, err, domain.ErrVerdictNotFound)
}

func TestVerdictCache_Expires(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewVerdictCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, verdict("p1", "sig-a", domain.StatusCompliant)))
	mr.FastForward(2 * time.Minute)

	_, err := cache.Get(ctx, "p1", "sig-a")
	assert.ErrorIs(t, err, domain.ErrVerdictNotFound)
	_, err = cache.Latest(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrVerdictNotFound)
}

func TestVerdictCache_Invalidate(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewVerdictCache(client, 0)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, verdict("p1", "sig-a", domain.StatusCompliant)))
	require.NoError(t, cache.Put(ctx, verdict("p1", "sig-b", domain.StatusCompliant)))
	require.NoError(t, cache.Put(ctx, verdict("p2", "sig-a", domain.StatusCompliant)))

	require.NoError(t, cache.Invalidate(ctx, "p1"))

	_, err := cache.Get(ctx, "p1", "sig-a")
	assert.ErrorIs(t, err, domain.ErrVerdictNotFound)
	_, err = cache.Latest(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrVerdictNotFound)
	assert.False(t, mr.Exists("compliance:project:p1:signatures"))

	_, err = cache.Get(ctx, "p2", "sig-a")
	assert.NoError(t, err)
}

func TestVerdictCache_PublishesOnPut(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewVerdictCache(client, time.Hour)
	ctx := context.Background()

	sub := cache.Subscribe(ctx, "p1")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, cache.Put(ctx, verdict("p1", "sig-a", domain.StatusWarning)))

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, "compliance:events:p1", msg.Channel)
		var got domain.Verdict
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, "sig-a", got.Signature)
	case <-time.After(2 * time.Second):
		t.Fatal("verdict event not published")
	}
}
