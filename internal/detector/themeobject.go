package detector

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// inlineThemeRe finds the start of a `Shopify.theme = {` assignment. The object
// itself is cut out by extractObject.
var inlineThemeRe = regexp.MustCompile(`Shopify\.theme\s*=\s*\{`) //nolint: gochecknoglobals

// themeNameFields lists the theme object fields holding an identifier, by priority.
var themeNameFields = []string{"name", "theme_name", "id", "role"} //nolint: gochecknoglobals

// findThemeObject returns the source text of the first `Shopify.theme = {...}`
// object literal found in src.
func findThemeObject(src string) (string, bool) {
	loc := inlineThemeRe.FindStringIndex(src)
	if loc == nil {
		return "", false
	}

	// the match ends right after the opening brace
	return extractObject(src, loc[1]-1)
}

// extractObject cuts the brace-delimited object starting at s[start] == '{'.
// Braces inside string literals are ignored. When the braces never balance,
// the object is assumed to end at the first closing brace, which yields a
// fragment that usually fails to parse.
func extractObject(s string, start int) (string, bool) {
	var (
		depth   int
		quote   byte
		escaped bool
	)

	for i := start; i < len(s); i++ {
		c := s[i]

		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}

			continue
		}

		switch c {
		case '"', '\'', '`':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	if end := strings.IndexByte(s[start:], '}'); end >= 0 {
		return s[start : start+end+1], true
	}

	return "", false
}

// parseThemeObject decodes a theme object and returns its identifier: the
// first truthy field of name, theme_name, id and role. Strings are used as
// they are, numbers as their JSON text and true as "true". Empty strings,
// zero, false and null are skipped. The returned name is empty when no field
// qualifies.
func parseThemeObject(raw string) (string, error) {
	data := []byte(raw)
	if !jx.Valid(data) {
		return "", errors.New("theme object is not valid JSON")
	}

	fields := make(map[string]string, len(themeNameFields))
	d := jx.DecodeBytes(data)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		k := string(key)

		switch d.Next() {
		case jx.String:
			s, err := d.Str()
			if err != nil {
				return errors.Wrapf(err, "decode %q", k)
			}
			fields[k] = s
		case jx.Number:
			n, err := d.Raw()
			if err != nil {
				return errors.Wrapf(err, "decode %q", k)
			}
			fields[k] = numberText(string(n))
		case jx.Bool:
			b, err := d.Bool()
			if err != nil {
				return errors.Wrapf(err, "decode %q", k)
			}
			fields[k] = ""
			if b {
				fields[k] = "true"
			}
		default:
			// null, arrays and nested objects never name a theme
			fields[k] = ""

			return d.Skip()
		}

		return nil
	}); err != nil {
		return "", errors.Wrap(err, "decode theme object")
	}

	for _, f := range themeNameFields {
		if v := fields[f]; v != "" {
			return v, nil
		}
	}

	return "", nil
}

// numberText returns the JSON text of a number, or "" for zero.
func numberText(n string) string {
	if f, err := strconv.ParseFloat(n, 64); err == nil && f == 0 {
		return ""
	}

	return n
}
