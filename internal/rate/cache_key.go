package rate

import (
	"strconv"
	"strings"

	"fxconvert/internal/domain"
)

// CacheKey derives the result cache key. It depends only on the uppercased codes and
// the parsed amount, so "100" and "100.0" share an entry.
func CacheKey(req domain.ConversionRequest) string {
	return "exchange_rate:" +
		strings.ToUpper(string(req.From)) + ":" +
		strings.ToUpper(string(req.To)) + ":" +
		strconv.FormatFloat(req.Amount, 'g', -1, 64)
}
