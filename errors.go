package cryptofolio

import "errors"

var (
	// ErrMalformedRecord is returned when a raw field cannot be parsed as the expected type.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnknownAction is returned when an action name or code has no mapping.
	ErrUnknownAction = errors.New("unknown action")

	// ErrUnsupportedFeeCurrency is returned when an exchange reports fees in a currency it is not expected to.
	ErrUnsupportedFeeCurrency = errors.New("unsupported fee currency")

	// ErrUnsupportedConversion is returned when Money is converted between two currencies with no peg.
	ErrUnsupportedConversion = errors.New("unsupported conversion")

	// ErrPriceLookup is returned when the price of an asset could not be found.
	ErrPriceLookup = errors.New("price lookup failure")
)
