package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"MarketRegime/internal/service/ratelimit"
	xhttp "MarketRegime/pkg/http"

	"github.com/sony/gobreaker"
)

// HTTPServiceBase centralizes throttling, circuit breaking and retries for GET+JSON calls.
type HTTPServiceBase struct {
	baseURL  string
	host     string
	client   *xhttp.Client
	limiter  *ratelimit.Limiter
	breaker  *gobreaker.CircuitBreaker
	attempts int
	backoff  time.Duration
}

func newHTTPServiceBase(opts Options) (*HTTPServiceBase, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opts.BaseURL)
	}

	clientOpts := []xhttp.ClientOption{xhttp.WithTimeout(opts.Timeout)}
	if opts.UserAgent != "" {
		clientOpts = append(clientOpts, xhttp.WithUserAgent(opts.UserAgent))
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, xhttp.WithHTTPClient(opts.HTTPClient))
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "yahoo",
		Timeout: opts.BreakerOpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= opts.BreakerMaxFailures
		},
		// a 404 for an unknown symbol says nothing about upstream health
		IsSuccessful: func(err error) bool {
			return err == nil || !xhttp.IsTemporary(err)
		},
	})

	return &HTTPServiceBase{
		baseURL:  u.String(),
		host:     u.Host,
		client:   xhttp.NewClient(clientOpts...),
		limiter:  ratelimit.New(opts.RateLimit, opts.Burst),
		breaker:  breaker,
		attempts: opts.MaxAttempts,
		backoff:  opts.Backoff,
	}, nil
}

// GetJSON performs one throttled, breaker-guarded GET and decodes JSON into dest.
func (b *HTTPServiceBase) GetJSON(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	if err := b.limiter.Wait(ctx, b.host); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method:      xhttp.MethodGet,
			URL:         b.baseURL + path,
			Headers:     map[string]string{"Accept": "application/json"},
			QueryParams: query,
		}, dest)
	})
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

// GetJSONWithRetry retries transient failures with linear backoff.
// Client errors and an open breaker end the loop immediately.
func (b *HTTPServiceBase) GetJSONWithRetry(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	var err error
	for i := 1; i <= b.attempts; i++ {
		err = b.GetJSON(ctx, path, query, dest)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !retryable(err) || i == b.attempts {
			break
		}
		select {
		case <-time.After(time.Duration(i) * b.backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func retryable(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	return xhttp.IsTemporary(err)
}
