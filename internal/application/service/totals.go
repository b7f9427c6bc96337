package service

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/sangkips/printledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// maxExponent bounds the exponent accepted in a typed amount; anything larger
// is not an amount anyone meant to enter and is read as zero.
const maxExponent = 30

// CostFields are the raw values of the fields that feed the totals.
type CostFields struct {
	Cost      string `json:"cost"`
	PaperCost string `json:"paperCost"`
	LamiCost  string `json:"lamiCost"`
	EnveCost  string `json:"enveCost"`
	Received  string `json:"received"`
}

// Totals are the derived form fields, already formatted with two decimals.
type Totals struct {
	Total   string `json:"totalAmount"`
	Balance string `json:"balAmt"`
}

// CostFieldsOf extracts the cost inputs of an entry.
func CostFieldsOf(e entity.JobEntry) CostFields {
	return CostFields{
		Cost:      e.Cost,
		PaperCost: e.PaperCost,
		LamiCost:  e.LamiCost,
		EnveCost:  e.EnveCost,
		Received:  e.Received,
	}
}

// CalculateTotals sums the four cost fields and subtracts what was received.
// Blank or non-numeric fields count as zero.
func CalculateTotals(f CostFields) Totals {
	total := decimal.Zero
	for _, v := range []string{f.Cost, f.PaperCost, f.LamiCost, f.EnveCost} {
		total = total.Add(ParseAmount(v))
	}
	balance := total.Sub(ParseAmount(f.Received))

	return Totals{
		Total:   total.StringFixed(2),
		Balance: balance.StringFixed(2),
	}
}

// ParseAmount reads the longest leading decimal number in s, the way a browser
// parseFloat does, and returns zero when there is none ("12kg" is 12, "kg" is 0).
func ParseAmount(s string) decimal.Decimal {
	prefix := numericPrefix(strings.TrimLeftFunc(s, unicode.IsSpace))
	if prefix == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// numericPrefix returns the longest prefix of s matching
// [+-]? (digits [. digits?] | . digits) ([eE] [+-]? digits)?
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	intStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	intDigits := i - intStart

	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		fracDigits = j - i - 1
		if intDigits > 0 || fracDigits > 0 {
			i = j
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return ""
	}

	mantissa := strings.TrimSuffix(s[:i], ".")

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			digits := strings.TrimLeft(s[expStart:j], "0")
			if len(digits) > 3 {
				return ""
			}
			if n, _ := strconv.Atoi(digits); n > maxExponent {
				return ""
			}
			return normalizeMantissa(mantissa) + s[i:j]
		}
	}
	return normalizeMantissa(mantissa)
}

// normalizeMantissa drops a leading '+' and gives ".5" an integer part.
func normalizeMantissa(m string) string {
	sign := ""
	switch {
	case strings.HasPrefix(m, "+"):
		m = m[1:]
	case strings.HasPrefix(m, "-"):
		sign, m = "-", m[1:]
	}
	if strings.HasPrefix(m, ".") {
		m = "0" + m
	}
	return sign + m
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
