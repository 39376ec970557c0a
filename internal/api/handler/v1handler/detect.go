package v1handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"themespot/pkg/affiliate"
	"themespot/pkg/domain"
	"themespot/pkg/metrics"
	"themespot/pkg/serrors"

	"github.com/go-faster/jx"
)

// Detect handles POST {"url": "..."} and responds with the scan result.
// The url is validated before any outbound request is made.
func (h Handler) Detect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.writeError(ctx, w, start, serrors.With(serrors.ErrMethodNotAllowed, "Method not allowed. Use POST."))

		return
	}

	req, err := h.decodeRequest(w, r)
	if err != nil {
		h.writeError(ctx, w, start, err)

		return
	}

	res, err := h.deps.Detector.Detect(ctx, req.URL)
	if err != nil {
		h.writeError(ctx, w, start, err)

		return
	}

	outcome := metrics.OutcomeNoMatch
	if res.IsPlatformMatch {
		outcome = metrics.OutcomeMatch
	}
	h.deps.Metrics.Record(ctx, outcome, time.Since(start))

	link, hasLink := affiliate.Build(h.options.AffiliateBaseURL, res.ThemeName, req.URL)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		res.EncodeFields(e)
		if hasLink {
			e.FieldStart("affiliateUrl")
			e.Str(link)
		}
		e.ObjEnd()
	})
}

// decodeRequest reads and validates the request body. An empty body is
// treated like a body without url.
func (h Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (*domain.ScanRequest, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.options.MaxRequestBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, serrors.With(serrors.ErrBadRequest, "request body too large")
		}

		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "unable to read request body")
	}

	var req domain.ScanRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := req.Decode(jx.DecodeBytes(body)); err != nil {
			return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid JSON body")
		}
	}

	if req.URL == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "Missing url in request body")
	}

	return &req, nil
}
