package detector

import (
	"net"
	"net/url"
	"strings"

	"themespot/pkg/serrors"

	"golang.org/x/net/idna"
)

// DefaultScheme is prepended to targets given without a scheme.
const DefaultScheme = "https"

// NormalizeTarget turns user input into the URL that will be fetched.
//
// The rules are:
//   - Surrounding whitespace is trimmed; empty input is rejected
//   - Input without a "://" separator gets "https://" prepended
//   - Scheme and host are lower-cased; internationalized hosts are converted to
//     their ASCII (punycode) form
//   - Only http and https targets with a non-empty host are accepted
//
// Path, query and fragment are kept as given. All failures carry serrors.ErrBadRequest.
func NormalizeTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", serrors.With(serrors.ErrBadRequest, "url is empty")
	}

	if !strings.Contains(raw, "://") {
		raw = DefaultScheme + "://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid URL")
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", serrors.With(serrors.ErrBadRequest, "unsupported URL scheme %q", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return "", serrors.With(serrors.ErrBadRequest, "URL has no host")
	}

	if ip := net.ParseIP(host); ip == nil {
		host, err = idna.Lookup.ToASCII(host)
		if err != nil {
			return "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid host")
		}
	} else if strings.Contains(host, ":") {
		// IPv6 literals keep their brackets
		host = "[" + host + "]"
	}

	if port := u.Port(); port != "" {
		u.Host = host + ":" + port
	} else {
		u.Host = host
	}

	return u.String(), nil
}
