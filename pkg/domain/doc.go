// Package domain contains the core domain entities used by the application:
// the detection request and the verdict produced for it. These types are
// intentionally free of infrastructure concerns so they can be shared across
// the detector, the HTTP API and the CLI.
package domain
