package detector_test

import (
	"strings"
	"testing"

	"themespot/internal/detector"
	"themespot/pkg/domain"

	"github.com/stretchr/testify/require"
)

func inspect(t *testing.T, html string) *domain.ScanResult {
	t.Helper()

	res, err := detector.Inspect(strings.NewReader(html))
	require.NoError(t, err)
	require.NotNil(t, res)

	return res
}

func TestInspect_InlineTheme(t *testing.T) {
	res := inspect(t, `<html><head>
<script>var x = 1;</script>
<script>window.Shopify = window.Shopify || {};
Shopify.theme = {"name":"Foo","id":123,"role":"main"};</script>
</head><body></body></html>`)

	require.True(t, res.IsPlatformMatch)
	require.Equal(t, "Foo", res.ThemeName)
	require.Equal(t, []string{domain.EvidenceInlineTheme}, res.Evidence)
}

func TestInspect_InlineThemeNestedObject(t *testing.T) {
	res := inspect(t, `<script>Shopify.theme = {"name":"Dawn","style":{"id":null,"handle":"default"},"theme_store_id":887};</script>`)

	require.True(t, res.IsPlatformMatch)
	require.Equal(t, "Dawn", res.ThemeName)
	require.Equal(t, []string{domain.EvidenceInlineTheme}, res.Evidence)
}

func TestInspect_InlineThemeFieldPriority(t *testing.T) {
	cases := []struct {
		name   string
		object string
		want   string
	}{
		{name: "theme_name when name missing", object: `{"theme_name":"Sense","id":5}`, want: "Sense"},
		{name: "empty name skipped", object: `{"name":"","theme_name":"Craft"}`, want: "Craft"},
		{name: "numeric id", object: `{"id":128934,"role":"main"}`, want: "128934"},
		{name: "zero id skipped", object: `{"id":0,"role":"main"}`, want: "main"},
		{name: "null name skipped", object: `{"name":null,"role":"unpublished"}`, want: "unpublished"},
		{name: "no identifying field", object: `{"theme_store_id":887}`, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := inspect(t, `<script>Shopify.theme = `+tc.object+`;</script>`)
			require.True(t, res.IsPlatformMatch)
			require.Equal(t, tc.want, res.ThemeName)
			require.Equal(t, []string{domain.EvidenceInlineTheme}, res.Evidence)
		})
	}
}

func TestInspect_InlineThemeNotJSON(t *testing.T) {
	res := inspect(t, `<script>Shopify.theme = {name: "Foo", id: 1,};</script>`)

	require.False(t, res.IsPlatformMatch)
	require.Empty(t, res.ThemeName)
	require.Equal(t, []string{domain.EvidenceInlineThemeNotJSON}, res.Evidence)
}

func TestInspect_InlineThemeNotJSONStillChecksAssets(t *testing.T) {
	res := inspect(t, `<html><head>
<script>Shopify.theme = {"name":"Foo",};</script>
<link rel="stylesheet" href="//shop.example/cdn/shop/t/3/themes/refresh/assets/base.css">
</head></html>`)

	require.True(t, res.IsPlatformMatch)
	require.Equal(t, "refresh", res.ThemeName)
	require.Equal(t, []string{
		domain.EvidenceInlineThemeNotJSON,
		domain.EvidenceThemeAssetPrefix + "//shop.example/cdn/shop/t/3/themes/refresh/assets/base.css",
	}, res.Evidence)
}

func TestInspect_OnlyFirstInlineThemeConsidered(t *testing.T) {
	res := inspect(t, `<script>Shopify.theme = {"name":"First"};</script>
<script>Shopify.theme = {"name":"Second"};</script>`)

	require.Equal(t, "First", res.ThemeName)
	require.Len(t, res.Evidence, 1)
}

func TestInspect_ThemeAsset(t *testing.T) {
	res := inspect(t, `<html><head>
<link rel="icon" href="/favicon.ico">
<link rel="stylesheet" href="https://cdn.example.com/s/files/1/themes/dawn/assets/theme.css">
<script src="https://cdn.example.com/themes/other/assets/app.js"></script>
</head></html>`)

	require.True(t, res.IsPlatformMatch)
	require.Equal(t, "dawn", res.ThemeName)
	require.Equal(t, []string{
		domain.EvidenceThemeAssetPrefix + "https://cdn.example.com/s/files/1/themes/dawn/assets/theme.css",
	}, res.Evidence)
}

func TestInspect_ThemeAssetCaseInsensitive(t *testing.T) {
	res := inspect(t, `<img src="/Themes/Impulse/assets/logo.png">`)

	require.True(t, res.IsPlatformMatch)
	require.Equal(t, "Impulse", res.ThemeName)
}

func TestInspect_InlineNameWinsOverAsset(t *testing.T) {
	res := inspect(t, `<head>
<script>Shopify.theme = {"name":"Inline Name"};</script>
<script src="/themes/dawn/assets/global.js"></script>
</head>`)

	require.True(t, res.IsPlatformMatch)
	require.Equal(t, "Inline Name", res.ThemeName)
	require.Equal(t, []string{
		domain.EvidenceInlineTheme,
		domain.EvidenceThemeAssetPrefix + "/themes/dawn/assets/global.js",
	}, res.Evidence)
}

func TestInspect_SettingsData(t *testing.T) {
	res := inspect(t, `<link rel="preload" href="/config/SETTINGS_DATA.json?v=1">`)

	require.True(t, res.IsPlatformMatch)
	require.Empty(t, res.ThemeName)
	require.Equal(t, []string{domain.EvidenceSettingsDataPrefix + "/config/SETTINGS_DATA.json?v=1"}, res.Evidence)
}

func TestInspect_AllChecksFire(t *testing.T) {
	res := inspect(t, `<head>
<script>Shopify.theme = {"name":"Taste"};</script>
<link href="/themes/taste/assets/base.css" rel="stylesheet">
<script src="/themes/taste/config/settings_data.json"></script>
</head>`)

	require.True(t, res.IsPlatformMatch)
	require.Equal(t, "Taste", res.ThemeName)
	require.Equal(t, []string{
		domain.EvidenceInlineTheme,
		domain.EvidenceThemeAssetPrefix + "/themes/taste/assets/base.css",
		domain.EvidenceSettingsDataPrefix + "/themes/taste/config/settings_data.json",
	}, res.Evidence)
}

func TestInspect_NoMatch(t *testing.T) {
	res := inspect(t, `<html><head><title>Plain</title>
<link rel="stylesheet" href="/static/site.css">
<script src="/static/app.js"></script>
<script>console.log("themes/");</script>
</head><body><img src="/img/logo.png"></body></html>`)

	require.False(t, res.IsPlatformMatch)
	require.Empty(t, res.ThemeName)
	require.NotNil(t, res.Evidence)
	require.Empty(t, res.Evidence)
}

func TestInspect_EmptyAttributesIgnored(t *testing.T) {
	res := inspect(t, `<link href=""><script src=""></script><img src="">`)

	require.False(t, res.IsPlatformMatch)
	require.Empty(t, res.Evidence)
}
