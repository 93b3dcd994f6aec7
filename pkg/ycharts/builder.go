package ycharts

import (
	"net/url"
	"strings"
	"unicode"
)

// Endpoint path segments.
const (
	endpointPoints    = "points"
	endpointSeries    = "series"
	endpointInfo      = "info"
	endpointDividends = "dividends"
	endpointSplits    = "splits"
	endpointSpinoffs  = "spinoffs"
)

// buildPath renders <resource>/<symbols>/<endpoint>[/<codes>].
// Empty segments are skipped, so a nil codes list drops the trailing segment.
func buildPath(r Resource, symbols []string, endpoint string, codes []string) string {
	segs := []string{r.Path, joinList(symbols), endpoint, joinList(codes)}
	out := segs[:0]
	for _, s := range segs {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}

// buildURL joins base, version and path, appends the encoded query when it has
// at least one parameter, and strips every whitespace character.
func buildURL(base, version, path string, q url.Values) string {
	u := strings.TrimRight(base, "/") + "/" + strings.Trim(version, "/") + "/" + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return stripSpace(u)
}

func joinList(items []string) string {
	return strings.Join(items, ",")
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
