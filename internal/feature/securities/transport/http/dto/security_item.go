// Package dto defines data transfer objects for the securities HTTP API.
package dto

import "encoding/json"

// SecurityItem represents one directory entry in the API response.
type SecurityItem struct {
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	Exchange string          `json:"exchange,omitempty"`
	Raw      json.RawMessage `json:"raw,omitempty"`
}
