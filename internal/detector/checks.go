package detector

import (
	"io"
	"regexp"
	"strings"

	"themespot/pkg/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-faster/errors"
)

var (
	themeAssetRe   = regexp.MustCompile(`(?i)/themes/([^/]+)/`)   //nolint: gochecknoglobals
	settingsDataRe = regexp.MustCompile(`(?i)settings_data\.json`) //nolint: gochecknoglobals
)

// Inspect parses an HTML document and runs the fingerprint checks over it.
func Inspect(r io.Reader) (*domain.ScanResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse document")
	}

	return InspectDocument(doc), nil
}

// InspectDocument runs the three fingerprint checks over a parsed document.
// Every check runs regardless of the others; each one reports at most its
// first hit, and the first check that yields a theme name wins.
func InspectDocument(doc *goquery.Document) *domain.ScanResult {
	res := &domain.ScanResult{Evidence: make([]string, 0, 3)}

	checkInlineTheme(res, scriptText(doc))

	assets := assetURLs(doc)
	checkThemeAsset(res, assets)
	checkSettingsData(res, assets)

	return res
}

// scriptText joins the contents of all non-empty script elements in document order.
func scriptText(doc *goquery.Document) string {
	var parts []string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if text := s.Text(); text != "" {
			parts = append(parts, text)
		}
	})

	return strings.Join(parts, "\n")
}

// assetURLs collects link hrefs and script/img srcs in document order,
// skipping empty values.
func assetURLs(doc *goquery.Document) []string {
	var assets []string
	doc.Find("link[href], script[src], img[src]").Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr("href")
		if v == "" {
			v, _ = s.Attr("src")
		}
		if v != "" {
			assets = append(assets, v)
		}
	})

	return assets
}

func checkInlineTheme(res *domain.ScanResult, scripts string) {
	obj, ok := findThemeObject(scripts)
	if !ok {
		return
	}

	name, err := parseThemeObject(obj)
	if err != nil {
		res.AddEvidence(domain.EvidenceInlineThemeNotJSON)

		return
	}

	res.IsPlatformMatch = true
	res.SetThemeName(name)
	res.AddEvidence(domain.EvidenceInlineTheme)
}

func checkThemeAsset(res *domain.ScanResult, assets []string) {
	for _, u := range assets {
		m := themeAssetRe.FindStringSubmatch(u)
		if m == nil {
			continue
		}

		res.IsPlatformMatch = true
		res.SetThemeName(m[1])
		res.AddEvidence(domain.EvidenceThemeAssetPrefix + u)

		return
	}
}

func checkSettingsData(res *domain.ScanResult, assets []string) {
	for _, u := range assets {
		if !settingsDataRe.MatchString(u) {
			continue
		}

		res.IsPlatformMatch = true
		res.AddEvidence(domain.EvidenceSettingsDataPrefix + u)

		return
	}
}
