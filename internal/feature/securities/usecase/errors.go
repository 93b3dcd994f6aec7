// Package usecase implements the business logic for the security directory.
package usecase

import "errors"

var (
	// ErrUnknownResource is returned when the resource is not a YCharts resource.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrTooManyPages is returned when a listing does not terminate within maxPages.
	ErrTooManyPages = errors.New("too many listing pages")
)
