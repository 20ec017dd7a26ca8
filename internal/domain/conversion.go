package domain

// CurrencyCode is an uppercase ISO-4217 style code, e.g. "USD".
type CurrencyCode string

// ConversionRequest is a validated conversion query. Amount is always finite.
type ConversionRequest struct {
	From   CurrencyCode
	To     CurrencyCode
	Amount float64
}
