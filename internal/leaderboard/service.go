package leaderboard

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/verdantops/greenscore/internal/database"
	"github.com/verdantops/greenscore/internal/scoring"
)

// RankingsResponse is the payload served for ranking queries
type RankingsResponse struct {
	Entries     []scoring.CompositeResult `json:"entries"`
	Total       int                       `json:"total"`
	ServiceArea string                    `json:"service_area,omitempty"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

// Service computes and caches supplier rankings. Scores are always
// recomputed from the stored evaluations; the cache only avoids repeating
// that work between imports.
type Service struct {
	repo   *database.Repository
	engine *scoring.Engine
	cache  *RankingCache
}

// NewService creates a new rankings service with a 15 minute cache TTL
func NewService(repo *database.Repository, engine *scoring.Engine) *Service {
	return NewServiceWithCache(repo, engine, NewRankingCache(15*time.Minute))
}

// NewServiceWithCache creates a new rankings service with a custom cache
func NewServiceWithCache(repo *database.Repository, engine *scoring.Engine, cache *RankingCache) *Service {
	return &Service{
		repo:   repo,
		engine: engine,
		cache:  cache,
	}
}

// fullRanking returns the complete global ranking over every stored supplier.
// The uncapped slice is cached under the limit-0 key so supplier lookups and
// filtered queries share one engine run between imports.
func (s *Service) fullRanking() ([]scoring.CompositeResult, error) {
	if cached, found := s.cache.GetRankings("", 0); found {
		return cached.Entries, nil
	}

	groups, err := s.repo.AllSupplierEvaluations()
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluations: %w", err)
	}

	results := s.engine.Evaluate(groups)

	s.cache.SetRankings("", 0, &RankingsResponse{
		Entries:     results,
		Total:       len(results),
		GeneratedAt: time.Now(),
	})

	return results, nil
}

// Rankings returns the ranked suppliers, optionally filtered to one service
// area. Area filtering happens after global ranking so both Rank and AreaRank
// stay meaningful; Total counts every match even when the limit truncates the
// returned entries.
func (s *Service) Rankings(serviceArea string, limit int) (*RankingsResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	if cached, found := s.cache.GetRankings(serviceArea, limit); found {
		return cached, nil
	}

	results, err := s.fullRanking()
	if err != nil {
		return nil, err
	}

	total := 0
	entries := make([]scoring.CompositeResult, 0, limit)
	for _, result := range results {
		if serviceArea != "" && result.ServiceArea != serviceArea {
			continue
		}
		total++
		if len(entries) < limit {
			entries = append(entries, result)
		}
	}

	response := &RankingsResponse{
		Entries:     entries,
		Total:       total,
		ServiceArea: serviceArea,
		GeneratedAt: time.Now(),
	}

	s.cache.SetRankings(serviceArea, limit, response)

	return response, nil
}

// ScoreSupplier computes the full composite result for one supplier,
// including its current global and area ranks. The lookup scans the complete
// ranking, so suppliers outside any query limit are still found.
func (s *Service) ScoreSupplier(name string) (*scoring.CompositeResult, error) {
	results, err := s.fullRanking()
	if err != nil {
		return nil, err
	}

	for i := range results {
		if results[i].SupplierName == name {
			result := results[i]
			return &result, nil
		}
	}

	return nil, nil
}

// Invalidate drops all cached rankings. Call after every import.
func (s *Service) Invalidate() {
	s.cache.InvalidateAll()
}

// GetCacheStats returns rankings cache statistics
func (s *Service) GetCacheStats() map[string]interface{} {
	return s.cache.GetStats()
}

// WarmCache warms the rankings cache with common queries
func (s *Service) WarmCache() {
	s.cache.WarmCache(s)
}

// StartAutoRefresh starts automatic cache refresh
func (s *Service) StartAutoRefresh(interval time.Duration) {
	s.cache.AutoRefresh(s, interval)
}

// AreaList returns the distinct service areas of all stored suppliers
func (s *Service) AreaList() ([]string, error) {
	suppliers, err := s.repo.ListSuppliers()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var areas []string
	for _, supplier := range suppliers {
		if supplier.ServiceArea == "" || seen[supplier.ServiceArea] {
			continue
		}
		seen[supplier.ServiceArea] = true
		areas = append(areas, supplier.ServiceArea)
	}

	slog.Debug("Resolved service areas", "count", len(areas))
	return areas, nil
}
