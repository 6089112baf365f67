package leaderboard

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/verdantops/greenscore/internal/cache"
)

// RankingCache provides caching for computed rankings
type RankingCache struct {
	cache *cache.Cache
}

// NewRankingCache creates a new ranking cache
func NewRankingCache(ttl time.Duration) *RankingCache {
	return &RankingCache{
		cache: cache.NewCache(ttl),
	}
}

// generateCacheKey creates a cache key for a rankings query
func (rc *RankingCache) generateCacheKey(serviceArea string, limit int) string {
	return fmt.Sprintf("rankings:%s:%d", serviceArea, limit)
}

// GetRankings retrieves cached rankings
func (rc *RankingCache) GetRankings(serviceArea string, limit int) (*RankingsResponse, bool) {
	cacheKey := rc.generateCacheKey(serviceArea, limit)

	data, found := rc.cache.Get(cacheKey)
	if !found {
		return nil, false
	}

	var response RankingsResponse
	if err := json.Unmarshal(data, &response); err != nil {
		slog.Error("Failed to unmarshal cached rankings", "error", err, "key", cacheKey)
		return nil, false
	}

	slog.Debug("Rankings cache hit", "service_area", serviceArea, "limit", limit)
	return &response, true
}

// SetRankings caches a rankings response
func (rc *RankingCache) SetRankings(serviceArea string, limit int, response *RankingsResponse) {
	cacheKey := rc.generateCacheKey(serviceArea, limit)

	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal rankings for cache", "error", err, "service_area", serviceArea)
		return
	}

	rc.cache.Set(cacheKey, data)
	slog.Debug("Rankings cached", "service_area", serviceArea, "limit", limit, "entries", len(response.Entries))
}

// InvalidateAll drops every cached rankings entry
func (rc *RankingCache) InvalidateAll() {
	slog.Info("Invalidating all cached rankings")
	rc.cache.Clear()
}

// GetStats returns cache statistics
func (rc *RankingCache) GetStats() map[string]interface{} {
	return rc.cache.Stats()
}

// WarmCache pre-populates the cache with the common ranking queries
func (rc *RankingCache) WarmCache(service *Service) {
	slog.Info("Starting rankings cache warming")

	areas, err := service.AreaList()
	if err != nil {
		slog.Error("Failed to resolve service areas for cache warming", "error", err)
		areas = nil
	}

	queries := []struct {
		serviceArea string
		limit       int
	}{
		{"", 50},
		{"", 100},
	}
	for _, area := range areas {
		queries = append(queries, struct {
			serviceArea string
			limit       int
		}{area, 50})
	}

	for _, q := range queries {
		if _, err := service.Rankings(q.serviceArea, q.limit); err != nil {
			slog.Error("Failed to warm rankings cache",
				"error", err, "service_area", q.serviceArea, "limit", q.limit)
		}
	}

	slog.Info("Rankings cache warming completed")
}

// AutoRefresh sets up automatic cache refresh for rankings
func (rc *RankingCache) AutoRefresh(service *Service, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			slog.Debug("Auto-refreshing rankings cache")
			rc.WarmCache(service)
		}
	}()
}
