package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"themespot/internal/config"
	"themespot/internal/detector"
	"themespot/pkg/domain"

	"github.com/fatih/color"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// detection is the outcome of running the detector against one URL.
type detection struct {
	URL    string
	Result *domain.ScanResult
	Err    error
}

// runDetections scans urls with at most concurrency requests in flight.
// Results keep the order of urls.
func runDetections(ctx context.Context, det detector.Detector, urls []string, concurrency int) []detection {
	if concurrency < 1 {
		concurrency = 1
	}

	out := make([]detection, len(urls))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, u := range urls {
		g.Go(func() error {
			res, err := det.Detect(ctx, u)
			out[i] = detection{URL: u, Result: res, Err: err}

			// failures are reported per URL and must not stop the others
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func countFailed(detections []detection) int {
	failed := 0
	for _, d := range detections {
		if d.Err != nil {
			failed++
		}
	}

	return failed
}

// writeDetectionsJSON writes detections as a JSON array.
func writeDetectionsJSON(w io.Writer, detections []detection) error {
	var e jx.Encoder
	e.SetIdent(2)

	e.ArrStart()
	for _, d := range detections {
		e.ObjStart()
		e.FieldStart("url")
		e.Str(d.URL)
		if d.Err != nil {
			e.FieldStart("error")
			e.Str(d.Err.Error())
		} else {
			d.Result.EncodeFields(&e)
		}
		e.ObjEnd()
	}
	e.ArrEnd()

	if _, err := w.Write(append(e.Bytes(), '\n')); err != nil {
		return errors.Wrap(err, "write json")
	}

	return nil
}

// writeDetectionsText writes a human readable summary of detections.
func writeDetectionsText(w io.Writer, detections []detection) {
	bold := color.New(color.Bold)
	match := color.New(color.FgGreen, color.Bold)
	miss := color.New(color.FgYellow)
	fail := color.New(color.FgRed, color.Bold)

	for _, d := range detections {
		_, _ = bold.Fprintln(w, d.URL)

		switch {
		case d.Err != nil:
			_, _ = fail.Fprint(w, "  ERROR ")
			_, _ = fmt.Fprintln(w, d.Err.Error())
		case d.Result.IsPlatformMatch:
			theme := "unknown"
			if d.Result.HasThemeName() {
				theme = d.Result.ThemeName
			}
			_, _ = match.Fprint(w, "  SHOPIFY ")
			_, _ = fmt.Fprintf(w, "theme: %s\n", theme)
		default:
			_, _ = miss.Fprintln(w, "  not a Shopify storefront")
		}

		if d.Err == nil {
			for _, ev := range d.Result.Evidence {
				_, _ = fmt.Fprintf(w, "    - %s\n", ev)
			}
		}
	}
}

func detectCommand(cfg *config.Config) *cobra.Command {
	var (
		asJSON      bool
		concurrency int
		noColor     bool
	)

	cmd := &cobra.Command{
		Use:   "detect <url>...",
		Short: "Detects the platform and theme of one or more URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if noColor {
				color.NoColor = true
			}

			detections := runDetections(ctx, detector.New(detector.NewOptions(cfg)), args, concurrency)

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeDetectionsJSON(out, detections); err != nil {
					return err
				}
			} else {
				writeDetectionsText(out, detections)
			}

			if failed := countFailed(detections); failed > 0 {
				return errors.Errorf("%d of %d %s failed", failed, len(detections), plural(len(detections), "URL"))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Maximum number of URLs fetched at once")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}

	return word + "s"
}
