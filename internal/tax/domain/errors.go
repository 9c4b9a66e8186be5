package domain

import "errors"

var (
	ErrNotFound            = errors.New("not_found")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidTaxRate      = errors.New("invalid_tax_rate")
	ErrInvalidJurisdiction = errors.New("invalid_jurisdiction")
)
