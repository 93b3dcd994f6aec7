package ycharts

import (
	"net/url"
	"strconv"
)

// SeriesOptions are the optional arguments of a series query.
// Unset fields are left out of the query string entirely.
type SeriesOptions struct {
	Start             Date
	End               Date
	ResampleFrequency string // e.g. "weekly", "monthly"
	ResampleFunction  string // e.g. "mean", "sum"
	FillMethod        string // e.g. "previous"
	AggregateFunction string // e.g. "max"
}

func (o SeriesOptions) values() (url.Values, error) {
	q := url.Values{}
	if err := setDate(q, "start_date", o.Start); err != nil {
		return nil, err
	}
	if err := setDate(q, "end_date", o.End); err != nil {
		return nil, err
	}
	setString(q, "resample_frequency", o.ResampleFrequency)
	setString(q, "resample_function", o.ResampleFunction)
	setString(q, "fill_method", o.FillMethod)
	setString(q, "aggregate_function", o.AggregateFunction)
	return q, nil
}

// DividendOptions are the optional arguments of a dividends query.
type DividendOptions struct {
	ExStart      Date
	ExEnd        Date
	DividendType string // e.g. "regular", "special"
}

func (o DividendOptions) values() (url.Values, error) {
	q := url.Values{}
	if err := setDate(q, "ex_start_date", o.ExStart); err != nil {
		return nil, err
	}
	if err := setDate(q, "ex_end_date", o.ExEnd); err != nil {
		return nil, err
	}
	setString(q, "dividend_type", o.DividendType)
	return q, nil
}

// SplitOptions are the optional arguments of a stock splits query.
type SplitOptions struct {
	Start Date
	End   Date
}

func (o SplitOptions) values() (url.Values, error) {
	q := url.Values{}
	if err := setDate(q, "split_start_date", o.Start); err != nil {
		return nil, err
	}
	if err := setDate(q, "split_end_date", o.End); err != nil {
		return nil, err
	}
	return q, nil
}

// SpinoffOptions are the optional arguments of a stock spinoffs query.
type SpinoffOptions struct {
	Start Date
	End   Date
}

func (o SpinoffOptions) values() (url.Values, error) {
	q := url.Values{}
	if err := setDate(q, "spinoff_start_date", o.Start); err != nil {
		return nil, err
	}
	if err := setDate(q, "spinoff_end_date", o.End); err != nil {
		return nil, err
	}
	return q, nil
}

// ListOptions are the arguments of a listing query.
// Page defaults to 1. At most one filter can be given per call.
type ListOptions struct {
	Page        int
	FilterName  string
	FilterValue string
}

func (o ListOptions) values(r Resource) (url.Values, error) {
	page := o.Page
	if page <= 0 {
		page = 1
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if o.FilterName == "" {
		return q, nil
	}
	if !r.AllowsFilter(o.FilterName) {
		return nil, malformedf("Invalid filter %q for %s.", o.FilterName, r.Path)
	}
	q.Set(o.FilterName, o.FilterValue)
	return q, nil
}

func setDate(q url.Values, key string, d Date) error {
	if d.IsZero() {
		return nil
	}
	s, err := d.format()
	if err != nil {
		return err
	}
	q.Set(key, s)
	return nil
}

func setString(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}
