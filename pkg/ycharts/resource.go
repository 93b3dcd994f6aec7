package ycharts

import "slices"

// Resource describes one resource type of the API: its path segment, the filter
// names its listing endpoint accepts, and which endpoints it supports.
type Resource struct {
	Path      string   // top-level path segment, e.g. "companies"
	Filters   []string // filter names accepted by the listing endpoint
	HasCodes  bool     // points/series take calculation codes (false for indicators)
	Dividends bool     // supports /dividends
	Splits    bool     // supports /splits
	Spinoffs  bool     // supports /spinoffs
}

var (
	// Companies is the resource for publicly traded companies.
	Companies = Resource{
		Path:      "companies",
		Filters:   []string{"country", "exchange", "industry", "sector"},
		HasCodes:  true,
		Dividends: true,
		Splits:    true,
		Spinoffs:  true,
	}

	// MutualFunds is the resource for mutual funds.
	MutualFunds = Resource{
		Path:      "mutual_funds",
		Filters:   []string{"broad_category", "category", "fund_family"},
		HasCodes:  true,
		Dividends: true,
	}

	// Indicators is the resource for economic indicators. An indicator addresses a
	// single implicit series, so points and series carry no calculation codes.
	Indicators = Resource{
		Path:    "indicators",
		Filters: []string{"category", "region", "source"},
	}
)

// Resources lists every known resource in a stable order.
var Resources = []Resource{Companies, MutualFunds, Indicators}

// ResourceByPath returns the resource whose path segment is p.
func ResourceByPath(p string) (Resource, bool) {
	for _, r := range Resources {
		if r.Path == p {
			return r, true
		}
	}
	return Resource{}, false
}

// AllowsFilter reports whether name is an accepted listing filter.
func (r Resource) AllowsFilter(name string) bool {
	return slices.Contains(r.Filters, name)
}
