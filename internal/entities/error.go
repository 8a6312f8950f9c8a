package entities

import "errors"

var (
	ErrNotFound = errors.New("entity not found")

	ErrConfiguration    = errors.New("configuration error")
	ErrProvider         = errors.New("rate provider failed")
	ErrBuild            = errors.New("rate matrix build failed")
	ErrUnknownCurrency  = errors.New("invalid currency code")
	ErrInvalidAmount    = errors.New("amount must be a number")
	ErrAmountOutOfRange = errors.New("converted amount out of range")
	ErrUnknownAction    = errors.New("unknown action")
	ErrCacheUnavailable = errors.New("exchange rates not available")
)
