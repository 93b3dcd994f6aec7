// Package entity defines the domain models for the securities feature.
package entity

import "time"

// Security is one entry of the local security directory, built from the
// YCharts listing endpoints. (ResourceType, Symbol) is unique.
type Security struct {
	ID           uint      `gorm:"primaryKey"`
	ResourceType string    `gorm:"size:20;not null;uniqueIndex:idx_securities_resource_symbol"`
	Symbol       string    `gorm:"size:50;not null;uniqueIndex:idx_securities_resource_symbol"`
	Name         string    `gorm:"size:255"`
	Exchange     string    `gorm:"size:100"`
	Raw          string    `gorm:"type:text"` // listing item as returned by the API (JSON)
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}
