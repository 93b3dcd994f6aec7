// Package usecase implements the business logic for the quotes gateway.
package usecase

import "errors"

var (
	// ErrUnknownResource is returned when the resource path segment is not a YCharts resource.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrUnknownEndpoint is returned when the endpoint is not supported by the gateway.
	ErrUnknownEndpoint = errors.New("unknown endpoint")

	// ErrInvalidParameter is returned when a query parameter cannot be parsed.
	ErrInvalidParameter = errors.New("invalid parameter")
)
