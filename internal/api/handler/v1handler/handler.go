// Package v1handler implements the HTTP handlers of the detection API.
package v1handler

import (
	"context"
	"net/http"
	"time"

	"themespot/internal/config"
	"themespot/internal/detector"
	"themespot/pkg/logger"
	"themespot/pkg/metrics"
	"themespot/pkg/serrors"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// DefaultMaxRequestBytes caps the size of a detection request body.
const DefaultMaxRequestBytes = 64 << 10

// Deps holds the collaborators of the handlers.
type Deps struct {
	Detector detector.Detector
	// Metrics is optional; nil disables recording.
	Metrics *metrics.Detections
}

// Options configure the handlers.
type Options struct {
	// AffiliateBaseURL is a link template with {theme} and {host} placeholders.
	// Empty disables affiliate links.
	AffiliateBaseURL string
	// MaxRequestBytes caps the request body size.
	MaxRequestBytes int64
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		AffiliateBaseURL: cfg.Affiliate.BaseURL,
		MaxRequestBytes:  DefaultMaxRequestBytes,
	}
}

type Handler struct {
	deps    Deps
	options Options
}

func New(deps Deps, opts Options) *Handler {
	if opts.MaxRequestBytes <= 0 {
		opts.MaxRequestBytes = DefaultMaxRequestBytes
	}

	return &Handler{deps: deps, options: opts}
}

// ErrorResponse is the client-facing form of an error.
type ErrorResponse struct {
	StatusCode int
	Message    string
	// Outcome is the metrics outcome attributed to the error.
	Outcome string
}

// NewError maps err to a status code and a message safe to show to callers.
// Errors without a semantic kind are reported as a generic internal error;
// the full error is only logged.
func (h Handler) NewError(ctx context.Context, err error) *ErrorResponse {
	res := &ErrorResponse{
		StatusCode: http.StatusInternalServerError,
		Message:    "internal error",
		Outcome:    metrics.OutcomeInternal,
	}

	switch serrors.KindOf(err) {
	case serrors.ErrBadRequest:
		res.StatusCode, res.Message, res.Outcome = http.StatusBadRequest, err.Error(), metrics.OutcomeBadRequest
	case serrors.ErrMethodNotAllowed:
		res.StatusCode, res.Message, res.Outcome = http.StatusMethodNotAllowed, err.Error(), metrics.OutcomeBadRequest
	case serrors.ErrFetchFailed:
		res.Message, res.Outcome = err.Error(), metrics.OutcomeFetch
	case serrors.ErrEmptyBody:
		res.Message, res.Outcome = err.Error(), metrics.OutcomeEmptyBody
	}

	if res.StatusCode >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Int("statusCode", res.StatusCode), zap.Error(err))
	} else {
		logger.Warn(ctx, "request rejected", zap.Int("statusCode", res.StatusCode), zap.Error(err))
	}

	return res
}

// writeError writes err as {"error": "..."} and records the outcome.
func (h Handler) writeError(ctx context.Context, w http.ResponseWriter, start time.Time, err error) {
	res := h.NewError(ctx, err)
	h.deps.Metrics.Record(ctx, res.Outcome, time.Since(start))

	writeJSON(w, res.StatusCode, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("error")
		e.Str(res.Message)
		e.ObjEnd()
	})
}

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
