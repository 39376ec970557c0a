package detector

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"themespot/internal/config"
	"themespot/pkg/domain"
	"themespot/pkg/logger"
	"themespot/pkg/serrors"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

const (
	// DefaultUserAgent identifies the detector to scanned sites.
	DefaultUserAgent = "ThemeSpot/1.0 (+https://yourdomain.example)"
	// DefaultFetchTimeout bounds the retrieval of a page.
	DefaultFetchTimeout = 15 * time.Second
	// DefaultMaxBodyBytes caps how much of a page is read.
	DefaultMaxBodyBytes = 5 << 20

	// statusSnippetChars is how much of a non-success response body is kept for diagnostics.
	statusSnippetChars = 200
)

// Options configure how pages are fetched.
type Options struct {
	// UserAgent is sent with every request.
	UserAgent string
	// FetchTimeout bounds the whole retrieval, from connecting to reading the body.
	FetchTimeout time.Duration
	// MaxBodyBytes caps the number of body bytes read; the rest is ignored.
	MaxBodyBytes int64
	// HTTPClient performs the requests. Redirects are followed according to its
	// CheckRedirect policy. Defaults to a client using http.DefaultTransport.
	HTTPClient *http.Client
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		UserAgent:    cfg.Detector.UserAgent,
		FetchTimeout: cfg.Detector.FetchTimeout,
		MaxBodyBytes: cfg.Detector.MaxBodyBytes,
	}
}

// StatusError reports a non-success HTTP status from the scanned site.
type StatusError struct {
	StatusCode int
	Status     string
	// Snippet holds the beginning of the response body.
	Snippet string
}

func (e *StatusError) Error() string {
	return "HTTP " + e.Status
}

// detector is the concrete implementation of the Detector interface. It holds
// no per-request state and is safe for concurrent use.
type detector struct {
	options Options
}

// Ensure detector conforms to the Detector interface at compile time.
var _ Detector = (*detector)(nil)

// New constructs a Detector, filling unset options with their defaults.
func New(opts Options) Detector {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}

	return &detector{options: opts}
}

// Detect normalizes the URL, fetches the page and inspects it.
func (d *detector) Detect(ctx context.Context, URL string) (*domain.ScanResult, error) {
	target, err := NormalizeTarget(URL)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithFields(ctx, zap.String("target", target))

	text, err := d.fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	res, err := Inspect(strings.NewReader(text))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrEmptyBody, err, "unable to parse fetched body")
	}

	logger.Debug(ctx, "page inspected",
		zap.Bool("match", res.IsPlatformMatch),
		zap.String("themeName", res.ThemeName),
		zap.Strings("evidence", res.Evidence))

	return res, nil
}

// fetch retrieves target and returns its body decoded to UTF-8.
func (d *detector) fetch(ctx context.Context, target string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.options.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid URL")
	}
	req.Header.Set("User-Agent", d.options.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := d.options.HTTPClient.Do(req)
	if err != nil {
		return "", d.fetchError(ctx, err, "fetch failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Snippet:    readSnippet(resp.Body),
		}
		logger.Warn(ctx, "target returned non-success status",
			zap.Int("statusCode", statusErr.StatusCode),
			zap.String("body", statusErr.Snippet))

		return "", serrors.Wrap(serrors.ErrFetchFailed, statusErr, "target returned an error status")
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, d.options.MaxBodyBytes))
	if err != nil {
		return "", d.fetchError(ctx, err, "unable to read response body")
	}

	return decodeBody(raw, resp.Header.Get("Content-Type"))
}

// fetchError classifies a transport error. Timeouts name the configured limit.
func (d *detector) fetchError(ctx context.Context, err error, msg string) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		logger.Warn(ctx, "target timed out", zap.Duration("timeout", d.options.FetchTimeout), zap.Error(err))

		return serrors.Wrap(serrors.ErrFetchFailed, err, "%s: no response within %s", msg, d.options.FetchTimeout)
	}

	logger.Warn(ctx, "could not fetch target", zap.Error(err))

	return serrors.Wrap(serrors.ErrFetchFailed, err, "%s", msg)
}

// readSnippet returns at most statusSnippetChars characters from r.
func readSnippet(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, statusSnippetChars*utf8.UTFMax))
	if err != nil && len(b) == 0 {
		return "<no body>"
	}

	s := strings.ToValidUTF8(string(b), "")
	if utf8.RuneCountInString(s) > statusSnippetChars {
		s = string([]rune(s)[:statusSnippetChars])
	}

	return s
}

// decodeBody converts raw to UTF-8 using the declared or sniffed charset and
// rejects bodies that hold no usable text.
func decodeBody(raw []byte, contentType string) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", serrors.With(serrors.ErrEmptyBody, "fetched body is empty")
	}

	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrEmptyBody, err, "unable to decode fetched body")
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrEmptyBody, err, "unable to decode fetched body")
	}

	if !utf8.Valid(decoded) || bytes.IndexByte(decoded, 0) >= 0 {
		return "", serrors.With(serrors.ErrEmptyBody, "fetched body is not text")
	}

	return string(decoded), nil
}

