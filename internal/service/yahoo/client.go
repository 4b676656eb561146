package yahoo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"MarketRegime/internal/domain/models"
	drepo "MarketRegime/internal/domain/repository"
	applogger "MarketRegime/pkg/logger"
	"MarketRegime/pkg/util"
)

const sourceName = "yahoo"

// Options configures the chart client.
type Options struct {
	BaseURL            string
	UserAgent          string
	Timeout            time.Duration
	MaxAttempts        int
	Backoff            time.Duration
	RateLimit          float64
	Burst              int
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
	HTTPClient         *http.Client
}

func (o *Options) setDefaults() {
	if o.BaseURL == "" {
		o.BaseURL = "https://query1.finance.yahoo.com"
	}
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 1
	}
	if o.Backoff <= 0 {
		o.Backoff = 250 * time.Millisecond
	}
	if o.BreakerMaxFailures == 0 {
		o.BreakerMaxFailures = 5
	}
	if o.BreakerOpenTimeout <= 0 {
		o.BreakerOpenTimeout = 30 * time.Second
	}
}

// Client implements SeriesSource backed by the Yahoo Finance v8 chart API.
type Client struct {
	base *HTTPServiceBase
	log  *applogger.Logger
}

var _ drepo.SeriesSource = (*Client)(nil)

// New creates a chart client.
func New(opts Options, l *applogger.Logger) (*Client, error) {
	opts.setDefaults()
	base, err := newHTTPServiceBase(opts)
	if err != nil {
		return nil, fmt.Errorf("yahoo client: %w", err)
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &Client{base: base, log: l.With(applogger.String("source", sourceName))}, nil
}

func (c *Client) Name() string { return sourceName }

// FetchSeries downloads daily closes for symbol over period. Adjusted closes are
// preferred; each point is stamped with its trading day in the exchange's zone.
func (c *Client) FetchSeries(ctx context.Context, symbol string, period drepo.Period) (models.Series, error) {
	start := time.Now()
	var resp chartResponse
	err := c.base.GetJSONWithRetry(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), map[string][]string{
		"range":                {string(period)},
		"interval":             {"1d"},
		"includeAdjustedClose": {"true"},
	}, &resp)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return models.Series{}, err
		}
		return models.Series{}, &models.DataUnavailableError{Instrument: symbol, Err: err}
	}

	series, err := resp.series(symbol)
	if err != nil {
		return models.Series{}, &models.DataUnavailableError{Instrument: symbol, Err: err}
	}

	c.log.Debug("series fetched",
		applogger.String("symbol", symbol),
		applogger.String("period", string(period)),
		applogger.Int("points", series.Len()),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return series, nil
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		Currency  string `json:"currency"`
		GMTOffset int    `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

func (r *chartResponse) series(symbol string) (models.Series, error) {
	if e := r.Chart.Error; e != nil {
		return models.Series{}, fmt.Errorf("%s: %s", e.Code, e.Description)
	}
	if len(r.Chart.Result) == 0 {
		return models.Series{}, errors.New("empty chart result")
	}
	res := r.Chart.Result[0]

	closes := res.closes()
	if closes == nil {
		return models.Series{}, errors.New("no close prices in chart result")
	}

	loc := time.FixedZone("exchange", res.Meta.GMTOffset)
	points := make([]models.Point, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		v := *closes[i]
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		points = append(points, models.Point{
			Time:  util.TruncateDay(time.Unix(ts, 0), loc),
			Close: v,
		})
	}
	if len(points) == 0 {
		return models.Series{}, errors.New("no valid observations")
	}
	return models.Series{Symbol: symbol, Points: points}, nil
}

// closes returns adjusted closes when present and complete, raw closes otherwise.
func (r chartResult) closes() []*float64 {
	ind := r.Indicators
	if len(ind.AdjClose) > 0 && len(ind.AdjClose[0].AdjClose) == len(r.Timestamp) {
		return ind.AdjClose[0].AdjClose
	}
	if len(ind.Quote) > 0 {
		return ind.Quote[0].Close
	}
	return nil
}
