package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/chynybekuuludastan/seo_inspector/internal/models"
)

const (
	// Cache key prefixes
	KeyPrefixAnalysis     = "analysis:"
	KeyPrefixUserAnalyses = "user_analyses:"

	// Default TTL for cached items
	DefaultTTL = 1 * time.Hour
)

// Repository represents a Redis cache repository
type Repository struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

// NewRepository creates a new Redis cache repository
func NewRepository(client *redis.Client, ttl time.Duration) *Repository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Repository{
		client: client,
		ctx:    context.Background(),
		ttl:    ttl,
	}
}

// CacheAnalysis stores an analysis in the cache
func (r *Repository) CacheAnalysis(analysis *models.Analysis) error {
	if r.client == nil {
		return nil // Skip if Redis is not available
	}

	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	key := KeyPrefixAnalysis + analysis.ID.String()
	return r.client.Set(r.ctx, key, data, r.ttl).Err()
}

// GetAnalysis retrieves an analysis from the cache
func (r *Repository) GetAnalysis(id uuid.UUID) (*models.Analysis, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client not available")
	}

	key := KeyPrefixAnalysis + id.String()
	data, err := r.client.Get(r.ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss, not an error
		}
		return nil, err
	}

	var analysis models.Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}

	return &analysis, nil
}

// InvalidateAnalysis removes an analysis from the cache
func (r *Repository) InvalidateAnalysis(id uuid.UUID) error {
	if r.client == nil {
		return nil
	}
	return r.client.Del(r.ctx, KeyPrefixAnalysis+id.String()).Err()
}

// CacheUserAnalyses stores a user's latest analyses in the cache
func (r *Repository) CacheUserAnalyses(userID uuid.UUID, analyses []*models.Analysis) error {
	if r.client == nil {
		return nil
	}

	data, err := json.Marshal(analyses)
	if err != nil {
		return fmt.Errorf("failed to marshal user analyses: %w", err)
	}

	key := KeyPrefixUserAnalyses + userID.String()
	return r.client.Set(r.ctx, key, data, r.ttl).Err()
}

// GetUserAnalyses retrieves a user's latest analyses from the cache
func (r *Repository) GetUserAnalyses(userID uuid.UUID) ([]*models.Analysis, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client not available")
	}

	key := KeyPrefixUserAnalyses + userID.String()
	data, err := r.client.Get(r.ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss, not an error
		}
		return nil, err
	}

	var analyses []*models.Analysis
	if err := json.Unmarshal(data, &analyses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user analyses: %w", err)
	}

	return analyses, nil
}

// InvalidateUserAnalyses removes a user's cached analyses list
func (r *Repository) InvalidateUserAnalyses(userID uuid.UUID) error {
	if r.client == nil {
		return nil
	}
	return r.client.Del(r.ctx, KeyPrefixUserAnalyses+userID.String()).Err()
}
