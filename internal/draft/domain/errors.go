package domain

import "errors"

var (
	ErrNotFound           = errors.New("not_found")
	ErrBlockNotFound      = errors.New("block_not_found")
	ErrGroupNotFound      = errors.New("group_not_found")
	ErrInvalidTitle       = errors.New("invalid_title")
	ErrInvalidCurrency    = errors.New("invalid_currency")
	ErrCurrencyMismatch   = errors.New("currency_mismatch")
	ErrInvalidQuantity    = errors.New("invalid_quantity")
	ErrInvalidCycleConfig = errors.New("invalid_cycle_configuration")
	ErrInvalidTaxTerms    = errors.New("invalid_tax_terms")
	ErrDuplicateInGroup   = errors.New("duplicate_in_group")
	ErrInvalidEmiConfig   = errors.New("invalid_emi_configuration")
	ErrInvalidPaymentMode = errors.New("invalid_payment_mode")
	ErrInvalidFlyByType   = errors.New("invalid_fly_by_type")
	ErrCrossGroupMove     = errors.New("cross_group_move")
)
