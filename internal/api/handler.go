// Package api exposes the signal engine over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"MTFSentinel/internal/calculator"
	"MTFSentinel/internal/collector"
	"MTFSentinel/internal/model"
	"MTFSentinel/internal/strategy"
)

// SignalService runs an analysis for a symbol with per-call params.
type SignalService interface {
	AnalyzeWith(ctx context.Context, symbol string, p strategy.Params) (*strategy.Analysis, error)
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// SignalResponse wraps a SignalResult with the rules it was computed at.
type SignalResponse struct {
	RequestID  string              `json:"request_id"`
	Symbol     string              `json:"symbol"`
	ExecRule   string              `json:"exec_rule"`
	FilterRule string              `json:"filter_rule"`
	Signal     *model.SignalResult `json:"signal"`
}

// ChartPoint is one execution-timeframe bar with its EMAs.
type ChartPoint struct {
	Time    time.Time `json:"time"`
	Close   float64   `json:"close"`
	EMAFast float64   `json:"ema_fast"`
	EMASlow float64   `json:"ema_slow"`
}

// ChartResponse is the price/EMA chart as data.
type ChartResponse struct {
	RequestID string       `json:"request_id"`
	Symbol    string       `json:"symbol"`
	ExecRule  string       `json:"exec_rule"`
	Points    []ChartPoint `json:"points"`
}

// SignalHandler serves signal and chart requests.
type SignalHandler struct {
	svc  SignalService
	base strategy.Params
}

func NewSignalHandler(svc SignalService, base strategy.Params) *SignalHandler {
	return &SignalHandler{svc: svc, base: base}
}

// Health answers liveness probes.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetSignal runs the analysis.
//
//	GET /api/v1/signal/:symbol?exec=15T&filter=30T&fibo_tol=0&divergence=true
func (h *SignalHandler) GetSignal(c *gin.Context) {
	p, err := h.params(c)
	if err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}
	symbol := c.Param("symbol")
	a, err := h.svc.AnalyzeWith(c.Request.Context(), symbol, p)
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, SignalResponse{
		RequestID:  c.GetString(requestIDKey),
		Symbol:     symbol,
		ExecRule:   p.ExecRule,
		FilterRule: p.FilterRule,
		Signal:     a.Result,
	})
}

// GetChart returns close and EMA columns of the execution frame.
//
//	GET /api/v1/chart/:symbol?exec=15T
func (h *SignalHandler) GetChart(c *gin.Context) {
	p, err := h.params(c)
	if err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}
	symbol := c.Param("symbol")
	a, err := h.svc.AnalyzeWith(c.Request.Context(), symbol, p)
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}

	points := []ChartPoint{}
	if f := a.Exec; f != nil && f.Indicators != nil {
		points = make([]ChartPoint, f.Len())
		for i, b := range f.Bars {
			points[i] = ChartPoint{
				Time:    b.Time,
				Close:   b.Close,
				EMAFast: f.Indicators.EMAFast[i],
				EMASlow: f.Indicators.EMASlow[i],
			}
		}
	}
	c.JSON(http.StatusOK, ChartResponse{
		RequestID: c.GetString(requestIDKey),
		Symbol:    symbol,
		ExecRule:  p.ExecRule,
		Points:    points,
	})
}

// params applies query overrides to a copy of the base params.
func (h *SignalHandler) params(c *gin.Context) (strategy.Params, error) {
	p := h.base
	p.FiboSet = append([]int(nil), h.base.FiboSet...)
	if v := c.Query("exec"); v != "" {
		p.ExecRule = v
	}
	if v := c.Query("filter"); v != "" {
		p.FilterRule = v
	}
	if v := c.Query("fibo_tol"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, errors.New("fibo_tol must be an integer")
		}
		p.FiboTolerance = n
	}
	if v := c.Query("divergence"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return p, errors.New("divergence must be a boolean")
		}
		p.UseDivergence = b
	}
	return p, nil
}

func (h *SignalHandler) fail(c *gin.Context, status int, err error) {
	c.JSON(status, ErrorResponse{Error: err.Error(), RequestID: c.GetString(requestIDKey)})
}

// statusFor maps analysis errors: bad query params are the caller's fault,
// a short history is unprocessable, anything else is an upstream problem.
func statusFor(err error) int {
	switch {
	case errors.Is(err, calculator.ErrInvalidRule), errors.Is(err, strategy.ErrInvalidParams):
		return http.StatusBadRequest
	case errors.Is(err, collector.ErrNotEnoughData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
