package repository

import (
	"context"
	"sync"
	"time"

	"MarketRegime/internal/domain/models"
	domrepo "MarketRegime/internal/domain/repository"
)

type fakeSource struct {
	mu     sync.Mutex
	series map[string]models.Series
	errs   map[string]error
	calls  map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		series: make(map[string]models.Series),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchSeries(ctx context.Context, symbol string, _ domrepo.Period) (models.Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[symbol]++
	if err := f.errs[symbol]; err != nil {
		return models.Series{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Series{}, err
	}
	return f.series[symbol], nil
}

func (f *fakeSource) callCount(symbol string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[symbol]
}

func dailySeries(symbol string, start time.Time, closes ...float64) models.Series {
	pts := make([]models.Point, len(closes))
	for i, c := range closes {
		pts[i] = models.Point{Time: start.AddDate(0, 0, i), Close: c}
	}
	return models.Series{Symbol: symbol, Points: pts}
}
