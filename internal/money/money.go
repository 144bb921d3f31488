package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrTooManyDecimals     = errors.New("amount has too many decimal places")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// Supported currencies. USD and CDF are independent ledgers; amounts are
// never converted between them.
const (
	USD = "USD"
	CDF = "CDF"
)

// Currencies lists the supported canonical codes in report order.
var Currencies = []string{USD, CDF}

// currencyAliases maps secondary labels onto their canonical currency.
// "FC" (franc congolais) is the label older rows and some UI exports use
// for CDF; the aggregator must fold it into the CDF bucket.
var currencyAliases = map[string]string{
	"FC": CDF,
}

// ParseMinor parses a decimal amount string ("12.50") into integer minor
// units. At most two decimal places are accepted.
func ParseMinor(input string) (int64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if amount.Exponent() < -2 {
		return 0, ErrTooManyDecimals
	}
	minor := amount.Shift(2)
	if !minor.IsInteger() {
		return 0, ErrTooManyDecimals
	}
	return minor.IntPart(), nil
}

// FormatMinor renders minor units as a two-decimal string.
func FormatMinor(value int64) string {
	negative := value < 0
	if negative {
		value = -value
	}
	formatted := fmt.Sprintf("%d.%02d", value/100, value%100)
	if negative {
		return "-" + formatted
	}
	return formatted
}

// Canonical folds currency aliases into their canonical code and
// upper-cases the input. It does not check support; use Validate for that.
func Canonical(currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if canonical, ok := currencyAliases[code]; ok {
		return canonical
	}
	return code
}

// Validate returns the canonical currency code or ErrUnsupportedCurrency.
func Validate(currency string) (string, error) {
	code := Canonical(currency)
	if code != USD && code != CDF {
		return "", ErrUnsupportedCurrency
	}
	return code, nil
}

// Labels returns every label that may appear on stored rows for the given
// canonical currency, the canonical code first. Aggregation queries match
// against all of them so alias-tagged rows land in the right bucket.
func Labels(currency string) []string {
	canonical := Canonical(currency)
	labels := []string{canonical}
	for alias, target := range currencyAliases {
		if target == canonical {
			labels = append(labels, alias)
		}
	}
	return labels
}

// Signed returns the signed amount of a ledger movement: positive for an
// inflow, negative for an outflow.
func Signed(direction string, amount int64) int64 {
	if direction == "Outflow" {
		return -amount
	}
	return amount
}
