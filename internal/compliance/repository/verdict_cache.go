package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abplan/abplan-backend/internal/compliance/domain"
)

const (
	verdictKeyPrefix    = "compliance:verdict:" // compliance:verdict:{project_id}:{signature}
	latestKeyPrefix     = "compliance:latest:"  // compliance:latest:{project_id} -> signature
	projectSetPrefix    = "compliance:project:" // compliance:project:{project_id}:signatures
	verdictEventChannel = "compliance:events:"  // compliance:events:{project_id}
	DefaultVerdictTTL   = 24 * time.Hour
)

// VerdictCache keeps computed verdicts in Redis, keyed by the signature of
// the state that produced them, and publishes every new verdict.
type VerdictCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewVerdictCache(client *redis.Client, ttl time.Duration) *VerdictCache {
	if ttl <= 0 {
		ttl = DefaultVerdictTTL
	}
	return &VerdictCache{client: client, ttl: ttl}
}

// Get returns the verdict computed for signature, if still cached.
func (c *VerdictCache) Get(ctx context.Context, projectID, signature string) (*domain.Verdict, error) {
	data, err := c.client.Get(ctx, c.verdictKey(projectID, signature)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrVerdictNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verdict: %w", err)
	}

	var v domain.Verdict
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verdict: %w", err)
	}
	return &v, nil
}

// Latest returns the most recently stored verdict of a project.
func (c *VerdictCache) Latest(ctx context.Context, projectID string) (*domain.Verdict, error) {
	sig, err := c.client.Get(ctx, c.latestKey(projectID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrVerdictNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest verdict: %w", err)
	}
	return c.Get(ctx, projectID, sig)
}

// Put stores v, marks it as the project's latest verdict and publishes it.
func (c *VerdictCache) Put(ctx context.Context, v *domain.Verdict) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}

	setKey := c.projectSetKey(v.ProjectID)
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, c.verdictKey(v.ProjectID, v.Signature), data, c.ttl)
	pipe.Set(ctx, c.latestKey(v.ProjectID), v.Signature, c.ttl)
	pipe.SAdd(ctx, setKey, v.Signature)
	pipe.Expire(ctx, setKey, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store verdict: %w", err)
	}

	if err := c.client.Publish(ctx, c.eventChannel(v.ProjectID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish verdict: %w", err)
	}
	return nil
}

// Invalidate drops every cached verdict of a project.
func (c *VerdictCache) Invalidate(ctx context.Context, projectID string) error {
	setKey := c.projectSetKey(projectID)
	sigs, err := c.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list verdicts: %w", err)
	}

	keys := make([]string, 0, len(sigs)+2)
	for _, sig := range sigs {
		keys = append(keys, c.verdictKey(projectID, sig))
	}
	keys = append(keys, c.latestKey(projectID), setKey)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate verdicts: %w", err)
	}
	return nil
}

// Subscribe listens for verdicts published for a project. The caller closes
// the subscription.
func (c *VerdictCache) Subscribe(ctx context.Context, projectID string) *redis.PubSub {
	return c.client.Subscribe(ctx, c.eventChannel(projectID))
}

func (c *VerdictCache) verdictKey(projectID, signature string) string {
	return fmt.Sprintf("%s%s:%s", verdictKeyPrefix, projectID, signature)
}

func (c *VerdictCache) latestKey(projectID string) string {
	return fmt.Sprintf("%s%s", latestKeyPrefix, projectID)
}

func (c *VerdictCache) projectSetKey(projectID string) string {
	return fmt.Sprintf("%s%s:signatures", projectSetPrefix, projectID)
}

func (c *VerdictCache) eventChannel(projectID string) string {
	return fmt.Sprintf("%s%s", verdictEventChannel, projectID)
}
