package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MarketRegime/internal/domain/models"
	domrepo "MarketRegime/internal/domain/repository"
	"MarketRegime/internal/services/alignment"
	applogger "MarketRegime/pkg/logger"
	"MarketRegime/pkg/util"

	"golang.org/x/sync/errgroup"
)

// SeriesProvider implements PriceProvider: it fetches every instrument from one
// SeriesSource concurrently and inner-joins the results.
type SeriesProvider struct {
	src         domrepo.SeriesSource
	l           *applogger.Logger
	concurrency int
}

var _ domrepo.PriceProvider = (*SeriesProvider)(nil)

func NewSeriesProvider(src domrepo.SeriesSource, l *applogger.Logger) *SeriesProvider {
	if l == nil {
		l = applogger.Nop()
	}
	return &SeriesProvider{src: src, l: l, concurrency: 8}
}

// Fetch returns the aligned table for instruments. The first failing fetch
// cancels the others and is returned as a DataUnavailableError.
func (p *SeriesProvider) Fetch(ctx context.Context, instruments []string, period domrepo.Period) (*models.AlignedTable, error) {
	if len(instruments) == 0 {
		return nil, &models.DataUnavailableError{Err: errors.New("no instruments requested")}
	}
	start := time.Now()

	results := make([]models.Series, len(instruments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, sym := range instruments {
		g.Go(func() error {
			s, err := p.src.FetchSeries(gctx, sym, period)
			if err != nil {
				if errors.Is(err, models.ErrDataUnavailable) || errors.Is(err, context.Canceled) {
					return err
				}
				return &models.DataUnavailableError{Instrument: sym, Err: err}
			}
			results[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.l.Error("series fetch failed",
			applogger.String("source", p.src.Name()),
			applogger.Strings("instruments", instruments),
			applogger.Error(err),
		)
		return nil, err
	}

	bySymbol := make(map[string]models.Series, len(instruments))
	for i, sym := range instruments {
		bySymbol[sym] = results[i]
	}

	table, stats, err := alignment.Align(instruments, bySymbol)
	if err != nil {
		p.l.Error("series alignment failed",
			applogger.Int("union_days", stats.UnionDays),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("align: %w", err)
	}

	p.l.Info("data synced",
		applogger.String("source", p.src.Name()),
		applogger.String("period", string(period)),
		applogger.String("latest", util.FormatDay(table.LatestTime())),
		applogger.Int("rows", table.Len()),
		applogger.Int("dropped", stats.Dropped()),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return table, nil
}
