package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"MarketRegime/internal/domain/models"
	domrepo "MarketRegime/internal/domain/repository"
	applogger "MarketRegime/pkg/logger"
	"MarketRegime/pkg/util"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// CHSeriesStore implements SeriesSource over a ClickHouse table of daily closes:
//
//	CREATE TABLE market.daily_closes (symbol String, day Date, close Float64)
//	ENGINE = ReplacingMergeTree ORDER BY (symbol, day)
type CHSeriesStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
	now   func() time.Time
}

var _ domrepo.SeriesSource = (*CHSeriesStore)(nil)

// NewCHSeriesStore validates the table identifiers and returns a store.
func NewCHSeriesStore(db *sql.DB, database, table string, l *applogger.Logger) (*CHSeriesStore, error) {
	if !identRe.MatchString(database) || !identRe.MatchString(table) {
		return nil, fmt.Errorf("invalid clickhouse table %q.%q", database, table)
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &CHSeriesStore{
		db:    db,
		table: database + "." + table,
		l:     l,
		now:   time.Now,
	}, nil
}

func (s *CHSeriesStore) Name() string { return "clickhouse" }

func (s *CHSeriesStore) FetchSeries(ctx context.Context, symbol string, period domrepo.Period) (models.Series, error) {
	start := time.Now()
	from, err := period.Start(s.now())
	if err != nil {
		return models.Series{}, err
	}

	q := fmt.Sprintf(`
        SELECT day, close
        FROM %s FINAL
        WHERE symbol = ? AND day >= ?
        ORDER BY day ASC
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, util.TruncateDay(from, time.UTC))
	if err != nil {
		s.l.Error("clickhouse fetch_series query error",
			applogger.String("table", s.table),
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return models.Series{}, &models.DataUnavailableError{Instrument: symbol, Err: fmt.Errorf("query: %w", err)}
	}
	defer rows.Close()

	points := make([]models.Point, 0, 512)
	for rows.Next() {
		var (
			day time.Time
			px  float64
		)
		if err := rows.Scan(&day, &px); err != nil {
			return models.Series{}, &models.DataUnavailableError{Instrument: symbol, Err: fmt.Errorf("scan: %w", err)}
		}
		points = append(points, models.Point{Time: util.TruncateDay(day, time.UTC), Close: px})
	}
	if err := rows.Err(); err != nil {
		return models.Series{}, &models.DataUnavailableError{Instrument: symbol, Err: fmt.Errorf("rows: %w", err)}
	}
	if len(points) == 0 {
		return models.Series{}, &models.DataUnavailableError{Instrument: symbol, Err: fmt.Errorf("no rows since %s", util.FormatDay(from))}
	}

	s.l.Debug("clickhouse fetch_series ok",
		applogger.String("table", s.table),
		applogger.String("symbol", symbol),
		applogger.String("period", string(period)),
		applogger.Int("rows", len(points)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return models.Series{Symbol: symbol, Points: points}, nil
}
