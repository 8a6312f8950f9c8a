package entities

import "sort"

// Code is an uppercase ISO 4217 currency code such as "USD".
type Code string

type Currency struct {
	Code Code
	Name string
}

// supportedCurrencies is the fixed set the service quotes, in declaration order.
var supportedCurrencies = []Currency{
	{Code: "USD", Name: "United States Dollar"},
	{Code: "EUR", Name: "Euro"},
	{Code: "JPY", Name: "Japanese Yen"},
	{Code: "GBP", Name: "British Pound"},
}

// SupportedCurrencies returns a copy of the supported set sorted by code.
func SupportedCurrencies() []Currency {
	out := make([]Currency, len(supportedCurrencies))
	copy(out, supportedCurrencies)

	sort.Slice(out, func(i, j int) bool {
		return out[i].Code < out[j].Code
	})

	return out
}

// SupportedCodes returns the supported codes in declaration order.
func SupportedCodes() []Code {
	codes := make([]Code, len(supportedCurrencies))
	for i, c := range supportedCurrencies {
		codes[i] = c.Code
	}
	return codes
}

func IsSupported(code Code) bool {
	for _, c := range supportedCurrencies {
		if c.Code == code {
			return true
		}
	}
	return false
}
