package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"covid_tracker/internal/fetcher"
	"covid_tracker/internal/model"
	"covid_tracker/internal/repository"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// SummaryFetcher pulls per-country records from the external feed
type SummaryFetcher interface {
	FetchSummary(ctx context.Context) ([]fetcher.CountryRecord, error)
}

// IngestService pulls the external statistics feed and appends the valid
// records to the store.
type IngestService interface {
	FetchAndStore(ctx context.Context) (*model.IngestSummary, error)
}

type ingestService struct {
	fetcher SummaryFetcher
	repo    repository.StatRepository
	cache   *gocache.Cache
	logger  *zap.Logger
}

// NewIngestService creates a new IngestService
func NewIngestService(f SummaryFetcher, repo repository.StatRepository, cache *gocache.Cache, logger *zap.Logger) IngestService {
	return &ingestService{fetcher: f, repo: repo, cache: cache, logger: logger}
}

// FetchAndStore performs one ingestion run. Upstream or shape failures
// abort before any write; individually invalid records are skipped and
// counted, never fatal.
func (s *ingestService) FetchAndStore(ctx context.Context) (*model.IngestSummary, error) {
	records, err := s.fetcher.FetchSummary(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	summary := &model.IngestSummary{}
	stats := make([]model.CovidStat, 0, len(records))

	for _, rec := range records {
		stat, ok := normalizeRecord(rec, now)
		if !ok {
			summary.Skipped++
			continue
		}
		stats = append(stats, stat)
	}

	if err := s.repo.CreateBatch(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to store ingested records: %w", err)
	}
	summary.Stored = len(stats)

	s.cache.Delete(listCacheKey)
	s.logger.Info("Ingested external covid data",
		zap.Int("stored", summary.Stored), zap.Int("skipped", summary.Skipped))
	return summary, nil
}

// normalizeRecord validates one upstream record. The feed carries no
// active column; active is derived from the other three, floored at 0.
func normalizeRecord(rec fetcher.CountryRecord, now time.Time) (model.CovidStat, bool) {
	if rec.Country == nil || strings.TrimSpace(*rec.Country) == "" {
		return model.CovidStat{}, false
	}
	if rec.TotalConfirmed == nil || rec.TotalDeaths == nil || rec.TotalRecovered == nil {
		return model.CovidStat{}, false
	}
	if *rec.TotalConfirmed < 0 || *rec.TotalDeaths < 0 || *rec.TotalRecovered < 0 {
		return model.CovidStat{}, false
	}

	active := *rec.TotalConfirmed - *rec.TotalDeaths - *rec.TotalRecovered
	if active < 0 {
		active = 0
	}

	return model.CovidStat{
		Country:   strings.TrimSpace(*rec.Country),
		Cases:     *rec.TotalConfirmed,
		Deaths:    *rec.TotalDeaths,
		Recovered: *rec.TotalRecovered,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}, true
}
