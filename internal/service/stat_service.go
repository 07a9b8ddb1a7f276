package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"covid_tracker/internal/model"
	"covid_tracker/internal/repository"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

var ErrStatNotFound = errors.New("record not found")

const listCacheKey = "covid:list"

// StatService defines operations over covid statistic records
type StatService interface {
	ListStats(ctx context.Context) ([]model.CovidStat, error)
	CreateStat(ctx context.Context, req model.CreateStatRequest) (*model.CovidStat, error)
	UpdateStat(ctx context.Context, id int64, req model.UpdateStatRequest) (*model.CovidStat, error)
	DeleteStat(ctx context.Context, id int64) error
}

type statService struct {
	repo   repository.StatRepository
	cache  *gocache.Cache
	logger *zap.Logger
}

// NewStatService creates a new StatService. The cache holds the list
// result for its default TTL; every write invalidates it.
func NewStatService(repo repository.StatRepository, cache *gocache.Cache, logger *zap.Logger) StatService {
	return &statService{repo: repo, cache: cache, logger: logger}
}

// ListStats returns every record in insertion order. A cached result may
// be up to the cache TTL stale.
func (s *statService) ListStats(ctx context.Context) ([]model.CovidStat, error) {
	if cached, found := s.cache.Get(listCacheKey); found {
		if stats, ok := cached.([]model.CovidStat); ok {
			return stats, nil
		}
	}

	stats, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list covid stats: %w", err)
	}
	s.cache.SetDefault(listCacheKey, stats)
	return stats, nil
}

func (s *statService) CreateStat(ctx context.Context, req model.CreateStatRequest) (*model.CovidStat, error) {
	now := time.Now()
	stat := &model.CovidStat{
		Country:   req.Country,
		Cases:     req.Cases,
		Deaths:    req.Deaths,
		Recovered: req.Recovered,
		Active:    req.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, stat); err != nil {
		return nil, fmt.Errorf("failed to create covid stat in repo: %w", err)
	}
	s.cache.Delete(listCacheKey)
	return stat, nil
}

// UpdateStat applies a partial update; nil fields keep their prior value,
// so an empty body is a valid no-op update.
func (s *statService) UpdateStat(ctx context.Context, id int64, req model.UpdateStatRequest) (*model.CovidStat, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find covid stat for update: %w", err)
	}
	if existing == nil {
		return nil, ErrStatNotFound
	}

	if req.Country != nil {
		existing.Country = *req.Country
	}
	if req.Cases != nil {
		existing.Cases = *req.Cases
	}
	if req.Deaths != nil {
		existing.Deaths = *req.Deaths
	}
	if req.Recovered != nil {
		existing.Recovered = *req.Recovered
	}
	if req.Active != nil {
		existing.Active = *req.Active
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update covid stat in repo: %w", err)
	}
	s.cache.Delete(listCacheKey)
	return existing, nil
}

func (s *statService) DeleteStat(ctx context.Context, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find covid stat for deletion: %w", err)
	}
	if existing == nil {
		return ErrStatNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete covid stat in repo: %w", err)
	}
	s.cache.Delete(listCacheKey)
	return nil
}
