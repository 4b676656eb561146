package repository

import (
	"context"

	"MarketRegime/internal/domain/models"
)

// SeriesSource fetches the daily close history of a single instrument.
type SeriesSource interface {
	FetchSeries(ctx context.Context, symbol string, period Period) (models.Series, error)
	Name() string
}

// PriceProvider returns one aligned table for a set of instruments.
type PriceProvider interface {
	Fetch(ctx context.Context, instruments []string, period Period) (*models.AlignedTable, error)
}

type Metrics interface {
	RecordEvaluation(level models.RiskLevel)
	RecordFlags(flags models.TriggerFlags)
	RecordSnapshot(s models.IndicatorSnapshot)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
