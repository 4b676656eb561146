package server

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"MarketRegime/internal/domain/models"
	"MarketRegime/internal/domain/repository"
	"MarketRegime/internal/usecase"
	"MarketRegime/pkg/config"
	applogger "MarketRegime/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flatProvider struct {
	rows    int
	periods []repository.Period
}

func (p *flatProvider) Fetch(_ context.Context, instruments []string, period repository.Period) (*models.AlignedTable, error) {
	p.periods = append(p.periods, period)
	t := &models.AlignedTable{Instruments: instruments}
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < p.rows; i++ {
		prices := make(map[string]float64, len(instruments))
		for j, s := range instruments {
			prices[s] = float64(100 + j)
		}
		t.Rows = append(t.Rows, models.Row{Time: d.AddDate(0, 0, i), Prices: prices})
	}
	return t, nil
}

func newTestApp(t *testing.T, p repository.PriceProvider) *App {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	mon := usecase.NewRegimeMonitor(usecase.RegimeMonitorParams{
		Provider: p,
		Roles:    cfg.Instruments,
		Period:   repository.Period(cfg.Provider.Period),
	})
	return New(cfg, applogger.Nop(), mon, nil, nil)
}

func TestRunOnce_RendersJSON(t *testing.T) {
	p := &flatProvider{rows: 260}
	app := newTestApp(t, p)

	var buf bytes.Buffer
	rep, err := app.RunOnce(context.Background(), &buf, "json", "5y")
	require.NoError(t, err)
	assert.Equal(t, models.LevelNormal, rep.Level)
	assert.Equal(t, []repository.Period{repository.Period5Y}, p.periods)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "NORMAL", out["level"])
	assert.Equal(t, "5y", out["period"])
}

func TestRunOnce_TextUsesDefaultPeriod(t *testing.T) {
	p := &flatProvider{rows: 260}
	app := newTestApp(t, p)

	var buf bytes.Buffer
	_, err := app.RunOnce(context.Background(), &buf, "text", "")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "LEVEL 1: NORMAL")
	assert.Equal(t, []repository.Period{repository.Period2Y}, p.periods)
}

func TestRunOnce_RejectsBadInput(t *testing.T) {
	p := &flatProvider{rows: 260}
	app := newTestApp(t, p)

	_, err := app.RunOnce(context.Background(), &bytes.Buffer{}, "xml", "")
	require.Error(t, err)

	_, err = app.RunOnce(context.Background(), &bytes.Buffer{}, "text", "3d")
	require.Error(t, err)
	assert.Empty(t, p.periods)
}

func TestRunOnce_PropagatesInsufficientHistory(t *testing.T) {
	app := newTestApp(t, &flatProvider{rows: 50})

	var buf bytes.Buffer
	_, err := app.RunOnce(context.Background(), &buf, "text", "")
	require.ErrorIs(t, err, models.ErrInsufficientHistory)
	assert.Zero(t, buf.Len())
}
