// Package detector fetches web pages and inspects their HTML for Shopify theme
// fingerprints: an inline window.Shopify.theme assignment, theme asset paths and
// references to settings_data.json.
package detector

import (
	"context"

	"themespot/pkg/domain"
)

// Detector inspects a single page and reports whether it runs on a Shopify theme.
//
//go:generate mockgen -package mockdetector -source=interface.go -destination=mock/mockdetector.go *
type Detector interface {
	// Detect fetches the page at URL and runs the fingerprint checks over it.
	// URL may omit the scheme. Errors carry serrors.ErrBadRequest for unusable
	// input, serrors.ErrFetchFailed when the page could not be retrieved and
	// serrors.ErrEmptyBody when it held no usable text.
	Detect(ctx context.Context, URL string) (*domain.ScanResult, error)
}
