package ycharts

import (
	"encoding/json"
	"io"
	"math"
)

// Document is a decoded response envelope: {"meta": {...}, "response": ...}.
// The client returns it exactly as decoded; the accessors below only read it.
type Document map[string]any

// DecodeDocument reads one envelope from r. Numbers are kept as json.Number
// so integers beyond float64 precision survive a decode/encode round trip.
func DecodeDocument(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Meta is a typed view of the envelope's meta object.
type Meta struct {
	Status       string
	ErrorCode    int
	ErrorMessage string
	URL          string
}

// Pagination is the meta.pagination_info object of listing responses.
type Pagination struct {
	CurrentPage int
	NumPages    int
}

// Meta returns the envelope's meta object. Missing fields are left zero.
func (d Document) Meta() Meta {
	m, _ := d["meta"].(map[string]any)
	return Meta{
		Status:       stringField(m, "status"),
		ErrorCode:    intField(m, "error_code"),
		ErrorMessage: stringField(m, "error_message"),
		URL:          stringField(m, "url"),
	}
}

// Response returns the envelope's response payload.
func (d Document) Response() any {
	return d["response"]
}

// Pagination returns meta.pagination_info; ok is false when it is absent.
func (d Document) Pagination() (p Pagination, ok bool) {
	m, _ := d["meta"].(map[string]any)
	pi, ok := m["pagination_info"].(map[string]any)
	if !ok {
		return Pagination{}, false
	}
	return Pagination{
		CurrentPage: intField(pi, "current_page"),
		NumPages:    intField(pi, "num_pages"),
	}, true
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// intField reads a JSON number decoded either as json.Number or float64.
func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, err := v.Float64(); err == nil && !math.IsInf(f, 0) {
			return int(f)
		}
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
