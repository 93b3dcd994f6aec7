// Package entity defines the domain models for the quotes feature.
package entity

import (
	"net/url"
	"strings"
)

// Endpoint names accepted by the gateway.
const (
	EndpointPoints    = "points"
	EndpointSeries    = "series"
	EndpointInfo      = "info"
	EndpointList      = "list"
	EndpointDividends = "dividends"
	EndpointSplits    = "splits"
	EndpointSpinoffs  = "spinoffs"
)

// Query is one gateway request forwarded to the YCharts API.
type Query struct {
	Resource string            // "companies", "mutual_funds" or "indicators"
	Endpoint string            // one of the Endpoint constants
	Symbols  []string          // security identifiers, in request order
	Codes    []string          // calculation or info field codes
	Params   map[string]string // optional query parameters as sent by the consumer
}

// Key returns a canonical string identifying the query.
// Two queries with the same key produce the same upstream request.
func (q Query) Key() string {
	params := url.Values{}
	for k, v := range q.Params {
		params.Set(k, v)
	}
	return strings.Join([]string{
		q.Resource,
		q.Endpoint,
		strings.Join(q.Symbols, ","),
		strings.Join(q.Codes, ","),
		params.Encode(),
	}, ":")
}

// SplitList splits a comma-separated path segment, trimming spaces and
// dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
