package rate

import (
	"fmt"
	"maps"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"fxconvert/internal/domain"
)

const (
	msgMissingParameters = "missing parameters, required: from, to, value"
	msgInvalidCodes      = "invalid currency codes, must be single string values"
	msgInvalidValue      = "invalid value parameter, must be a number"
)

type CurrencyValidator struct {
	supportedCodesSet map[string]struct{} // read only copy
	supportedCodesLst []string            // read only copy
	supportedCodesMsg string
}

// Validate checks raw conversion parameters. The first failing check wins:
// presence, code type, from membership, to membership, amount.
func (v *CurrencyValidator) Validate(fromRaw, toRaw, amountRaw string) (domain.ConversionRequest, error) {
	return v.validate([]string{fromRaw}, []string{toRaw}, []string{amountRaw})
}

// ValidateQuery is Validate over query parameters, where a code given more than once
// is rejected as an invalid currency code.
func (v *CurrencyValidator) ValidateQuery(q url.Values) (domain.ConversionRequest, error) {
	return v.validate(q["from"], q["to"], q["value"])
}

func (v *CurrencyValidator) validate(from, to, amount []string) (domain.ConversionRequest, error) {
	if first(from) == "" || first(to) == "" || first(amount) == "" {
		return domain.ConversionRequest{}, domain.NewBadRequest(domain.CodeInvalidParameters, msgMissingParameters)
	}

	fromCode, fromOK := singleCode(from)
	toCode, toOK := singleCode(to)
	if !fromOK || !toOK {
		return domain.ConversionRequest{}, domain.NewBadRequest(domain.CodeInvalidCurrencyCode, msgInvalidCodes)
	}

	if err := v.checkSupported(fromCode); err != nil {
		return domain.ConversionRequest{}, err
	}
	if err := v.checkSupported(toCode); err != nil {
		return domain.ConversionRequest{}, err
	}

	rawAmount := strings.TrimSpace(first(amount))
	if isHexLiteral(rawAmount) {
		return domain.ConversionRequest{}, domain.NewBadRequest(domain.CodeInvalidValue, msgInvalidValue)
	}
	value, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return domain.ConversionRequest{}, domain.NewBadRequest(domain.CodeInvalidValue, msgInvalidValue)
	}

	return domain.ConversionRequest{
		From:   domain.CurrencyCode(strings.ToUpper(fromCode)),
		To:     domain.CurrencyCode(strings.ToUpper(toCode)),
		Amount: value,
	}, nil
}

func (v *CurrencyValidator) checkSupported(code string) error {
	if _, ok := v.supportedCodesSet[strings.ToUpper(code)]; ok {
		return nil
	}
	return domain.NewBadRequest(
		domain.CodeCurrencyNotFound,
		fmt.Sprintf("currency %s not found, supported currencies: %s", code, v.supportedCodesMsg),
	)
}

func (v *CurrencyValidator) SupportedCodes() []string {
	return slices.Clone(v.supportedCodesLst)
}

func NewValidator(supportedCurrencies map[string]struct{}) *CurrencyValidator {
	codesSet := make(map[string]struct{}, len(supportedCurrencies))
	for code := range supportedCurrencies {
		codesSet[strings.ToUpper(strings.TrimSpace(code))] = struct{}{}
	}
	codesLst := slices.Collect(maps.Keys(codesSet))
	slices.Sort(codesLst)

	return &CurrencyValidator{
		supportedCodesSet: codesSet,
		supportedCodesLst: codesLst,
		supportedCodesMsg: strings.Join(codesLst, ", "),
	}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// singleCode returns the trimmed code when exactly one non-blank value was supplied.
func singleCode(values []string) (string, bool) {
	if len(values) != 1 {
		return "", false
	}
	code := strings.TrimSpace(values[0])
	return code, code != ""
}

// isHexLiteral reports a 0x prefix after an optional sign. Amounts are decimal only.
func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
