package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"MarketRegime/internal/domain/models"
	domrepo "MarketRegime/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var d0 = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func TestSeriesProvider_FetchAligns(t *testing.T) {
	src := newFakeSource()
	src.series["A"] = dailySeries("A", d0, 1, 2, 3, 4)
	src.series["B"] = dailySeries("B", d0.AddDate(0, 0, 1), 10, 20, 30, 40)

	table, err := NewSeriesProvider(src, nil).Fetch(context.Background(), []string{"A", "B"}, domrepo.Period2Y)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, table.Instruments)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, d0.AddDate(0, 0, 1), table.Rows[0].Time)
	assert.Equal(t, 2.0, table.Rows[0].Prices["A"])
	assert.Equal(t, 10.0, table.Rows[0].Prices["B"])
	assert.Equal(t, d0.AddDate(0, 0, 3), table.LatestTime())
}

func TestSeriesProvider_SourceErrorIsDataUnavailable(t *testing.T) {
	src := newFakeSource()
	src.series["A"] = dailySeries("A", d0, 1, 2)
	src.errs["B"] = errors.New("connection refused")

	_, err := NewSeriesProvider(src, nil).Fetch(context.Background(), []string{"A", "B"}, domrepo.Period2Y)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)

	var due *models.DataUnavailableError
	require.True(t, errors.As(err, &due))
	assert.Equal(t, "B", due.Instrument)
}

func TestSeriesProvider_NoOverlap(t *testing.T) {
	src := newFakeSource()
	src.series["A"] = dailySeries("A", d0, 1, 2)
	src.series["B"] = dailySeries("B", d0.AddDate(0, 0, 10), 1, 2)

	_, err := NewSeriesProvider(src, nil).Fetch(context.Background(), []string{"A", "B"}, domrepo.Period2Y)
	assert.ErrorIs(t, err, models.ErrEmptyAlignedTable)
}

func TestSeriesProvider_EmptySeries(t *testing.T) {
	src := newFakeSource()
	src.series["A"] = dailySeries("A", d0, 1, 2)
	src.series["B"] = models.Series{Symbol: "B"}

	_, err := NewSeriesProvider(src, nil).Fetch(context.Background(), []string{"A", "B"}, domrepo.Period2Y)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestSeriesProvider_NoInstruments(t *testing.T) {
	_, err := NewSeriesProvider(newFakeSource(), nil).Fetch(context.Background(), nil, domrepo.Period2Y)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}
