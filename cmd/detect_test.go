package main

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"

	mockdetector "themespot/internal/detector/mock"
	"themespot/pkg/domain"
	"themespot/pkg/serrors"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRunDetections_KeepsOrderAndBoundsConcurrency(t *testing.T) {
	det := mockdetector.NewMockDetector(gomock.NewController(t))

	var inFlight, peak atomic.Int32
	det.EXPECT().Detect(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u string) (*domain.ScanResult, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			if u == "bad.example" {
				return nil, serrors.With(serrors.ErrFetchFailed, "fetch failed")
			}

			return &domain.ScanResult{Evidence: []string{}}, nil
		}).Times(5)

	urls := []string{"a.example", "b.example", "bad.example", "c.example", "d.example"}
	got := runDetections(context.Background(), det, urls, 2)

	require.Len(t, got, len(urls))
	for i, d := range got {
		require.Equal(t, urls[i], d.URL)
	}
	require.Error(t, got[2].Err)
	require.Equal(t, 1, countFailed(got))
	require.LessOrEqual(t, peak.Load(), int32(2))
}

func TestWriteDetectionsJSON(t *testing.T) {
	var buf bytes.Buffer
	err := writeDetectionsJSON(&buf, []detection{
		{
			URL: "shop.example",
			Result: &domain.ScanResult{
				IsPlatformMatch: true,
				ThemeName:       "Dawn",
				Evidence:        []string{domain.EvidenceInlineTheme},
			},
		},
		{URL: "down.example", Err: serrors.With(serrors.ErrFetchFailed, "fetch failed")},
	})
	require.NoError(t, err)
	require.JSONEq(t, `[
		{"url":"shop.example","isShopify":true,"themeName":"Dawn","evidence":["window.Shopify.theme (inline script)"]},
		{"url":"down.example","error":"fetch failed"}
	]`, buf.String())
}

func TestWriteDetectionsText(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	writeDetectionsText(&buf, []detection{
		{URL: "shop.example", Result: &domain.ScanResult{
			IsPlatformMatch: true,
			Evidence:        []string{domain.EvidenceSettingsDataPrefix + "/settings_data.json"},
		}},
		{URL: "blog.example", Result: &domain.ScanResult{Evidence: []string{}}},
		{URL: "down.example", Err: serrors.With(serrors.ErrFetchFailed, "fetch failed")},
	})

	out := buf.String()
	require.Contains(t, out, "SHOPIFY theme: unknown")
	require.Contains(t, out, "- "+domain.EvidenceSettingsDataPrefix+"/settings_data.json")
	require.Contains(t, out, "not a Shopify storefront")
	require.Contains(t, out, "ERROR fetch failed")
}

func TestLeadingConfigArgs(t *testing.T) {
	require.Equal(t, []string{"-c", "prod.yml"}, leadingConfigArgs([]string{"serve", "-c", "prod.yml"}))
	require.Equal(t, []string{"-c", "x.yml"}, leadingConfigArgs([]string{"--config=x.yml", "detect", "a"}))
	require.Nil(t, leadingConfigArgs([]string{"detect", "--json", "a.example"}))
}
