package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"MarketRegime/internal/domain/models"
	domrepo "MarketRegime/internal/domain/repository"
	icache "MarketRegime/internal/service/cache"
	"MarketRegime/internal/service/ratelimit"
	"MarketRegime/internal/usecase"
	xhttp "MarketRegime/pkg/http"
	xlogger "MarketRegime/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Evaluator produces one regime report.
type Evaluator interface {
	Evaluate(ctx context.Context, p usecase.EvaluateParams) (*models.Report, error)
}

// Invalidator drops cached upstream data before a forced refresh.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// RegimeEchoHandler serves the latest regime report over Echo.
type RegimeEchoHandler struct {
	logger      *xlogger.Logger
	monitor     Evaluator
	memo        *icache.Memoize[*models.Report]
	invalidator Invalidator
	rl          *ratelimit.Limiter
}

func NewRegimeEchoHandler(logger *xlogger.Logger, monitor Evaluator, memo *icache.Memoize[*models.Report]) *RegimeEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	if memo == nil {
		memo = icache.NewMemoize[*models.Report](0)
	}
	return &RegimeEchoHandler{logger: logger, monitor: monitor, memo: memo}
}

// SetInvalidator enables upstream cache invalidation on refresh=true.
func (h *RegimeEchoHandler) SetInvalidator(inv Invalidator) { h.invalidator = inv }

// SetRateLimiter throttles requests per client IP.
func (h *RegimeEchoHandler) SetRateLimiter(rl *ratelimit.Limiter) { h.rl = rl }

func (h *RegimeEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	g := e.Group("/api")
	g.GET("/regime", h.Regime)
}

func (h *RegimeEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *RegimeEchoHandler) Regime(c echo.Context) error {
	if h.rl != nil && !h.rl.Allow(c.RealIP()) {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many requests", http.StatusTooManyRequests))
	}

	req := &models.RegimeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()

	if req.Refresh && h.invalidator != nil {
		if err := h.invalidator.Invalidate(ctx); err != nil {
			h.logger.Warn("series cache invalidation failed", xlogger.Error(err))
		}
	}

	key := req.Period
	if key == "" {
		key = "default"
	}
	rep, cached, err := h.memo.Do(ctx, key, req.Refresh, func(ctx context.Context) (*models.Report, error) {
		return h.monitor.Evaluate(ctx, usecase.EvaluateParams{Period: domrepo.Period(req.Period)})
	})
	if err != nil {
		h.logger.Error("regime usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	xcache := "MISS"
	if cached {
		xcache = "HIT"
	}
	c.Response().Header().Set("X-Cache", xcache)
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, rep)
}

func toAppError(err error) *xhttp.AppError {
	kind := usecase.ErrorKind(err)
	switch {
	case errors.Is(err, models.ErrDataUnavailable):
		return xhttp.UnavailableError("market data unavailable").WithError(err)
	case errors.Is(err, models.ErrInsufficientHistory):
		appErr := xhttp.UnprocessableError("ERR_INSUFFICIENT_HISTORY", err.Error()).WithError(err)
		var ih *models.InsufficientHistoryError
		if errors.As(err, &ih) {
			appErr.WithParam("indicator", ih.Indicator).
				WithParam("required", ih.Required).
				WithParam("available", ih.Available)
		}
		return appErr
	case errors.Is(err, models.ErrEmptyAlignedTable), errors.Is(err, models.ErrUnknownInstrument):
		return xhttp.UnprocessableError("ERR_"+strings.ToUpper(kind), err.Error()).WithError(err)
	case kind == "timeout":
		return xhttp.NewAppError("ERR_TIMEOUT", "", "evaluation timed out", http.StatusGatewayTimeout).WithError(err)
	default:
		return xhttp.InternalError("regime evaluation failed").WithError(err)
	}
}

