package domain

// Evidence strings reported by the fingerprint checks. Asset-based evidence is
// followed by the matching URL.
const (
	EvidenceInlineTheme        = "window.Shopify.theme (inline script)"
	EvidenceInlineThemeNotJSON = "window.Shopify.theme (found but not JSON-parseable)"
	EvidenceThemeAssetPrefix   = "asset URL contains /themes/: "
	EvidenceSettingsDataPrefix = "settings_data.json: "
)

// ScanRequest is a single detection request.
type ScanRequest struct {
	// URL is the page to inspect. The scheme may be omitted, in which case
	// https is assumed.
	URL string `json:"url"`
}

// ScanResult is the verdict for one page.
type ScanResult struct {
	// IsPlatformMatch reports whether any fingerprint check fired.
	IsPlatformMatch bool `json:"isShopify"`
	// ThemeName is the theme identifier, empty when none could be extracted.
	ThemeName string `json:"themeName"`
	// Evidence lists human-readable descriptions of the checks that fired,
	// in check order.
	Evidence []string `json:"evidence"`
}

// HasThemeName reports whether a theme identifier was extracted.
func (r *ScanResult) HasThemeName() bool {
	return r.ThemeName != ""
}

// AddEvidence appends an evidence entry.
func (r *ScanResult) AddEvidence(e string) {
	r.Evidence = append(r.Evidence, e)
}

// SetThemeName sets the theme name unless one is already present. The first
// check that produces a name wins.
func (r *ScanResult) SetThemeName(name string) {
	if r.ThemeName == "" {
		r.ThemeName = name
	}
}
