package repository

import (
	"context"
	"errors"
	"time"

	"MarketRegime/internal/domain/models"
	domrepo "MarketRegime/internal/domain/repository"
	"MarketRegime/pkg/cache"
	applogger "MarketRegime/pkg/logger"
)

// CachedSource is a read-through cache in front of another SeriesSource.
// Cache failures degrade to a direct fetch.
type CachedSource struct {
	next  domrepo.SeriesSource
	cache cache.Service
	ttl   time.Duration
	l     *applogger.Logger
}

var _ domrepo.SeriesSource = (*CachedSource)(nil)

func NewCachedSource(next domrepo.SeriesSource, c cache.Service, ttl time.Duration, l *applogger.Logger) *CachedSource {
	if l == nil {
		l = applogger.Nop()
	}
	return &CachedSource{next: next, cache: c, ttl: ttl, l: l}
}

func (s *CachedSource) Name() string { return s.next.Name() }

func (s *CachedSource) FetchSeries(ctx context.Context, symbol string, period domrepo.Period) (models.Series, error) {
	key := cache.GenerateKeyWithParams("series", s.next.Name(), symbol, string(period))

	var cached models.Series
	err := s.cache.Get(ctx, key, &cached)
	switch {
	case err == nil && cached.Len() > 0:
		s.l.Debug("series cache hit", applogger.String("key", key))
		return cached, nil
	case err != nil && !errors.Is(err, cache.ErrCacheMiss):
		s.l.Warn("series cache read failed", applogger.String("key", key), applogger.Error(err))
	}

	series, err := s.next.FetchSeries(ctx, symbol, period)
	if err != nil {
		return models.Series{}, err
	}

	if err := s.cache.Set(ctx, key, series, s.ttl); err != nil {
		s.l.Warn("series cache write failed", applogger.String("key", key), applogger.Error(err))
	}
	return series, nil
}

// Invalidate drops every cached series of the wrapped source.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.cache.DeleteByPattern(ctx, cache.BuildPattern(cache.GenerateKeyWithParams("series", s.next.Name())+":"))
}
