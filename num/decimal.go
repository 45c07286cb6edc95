package num

import (
	"github.com/shopspring/decimal"
)

type Decimal = decimal.Decimal

var (
	dzero = decimal.Zero
	d1    = decimal.NewFromInt(1)
)

func MustDecimalFromString(f string) Decimal {
	d, err := DecimalFromString(f)
	if err != nil {
		panic(err)
	}
	return d
}

func DecimalZero() Decimal {
	return dzero
}

func DecimalOne() Decimal {
	return d1
}

func DecimalFromInt64(i int64) Decimal {
	return decimal.NewFromInt(i)
}

func DecimalFromFloat(v float64) Decimal {
	return decimal.NewFromFloat(v)
}

func DecimalFromString(s string) (Decimal, error) {
	return decimal.NewFromString(s)
}

// TruncateToIncrement floors v down to the nearest multiple of inc. It never
// returns a value greater than v, so a truncated price or quantity is always
// acceptable to an exchange enforcing inc as its tick size. A non-positive
// increment leaves v unchanged.
func TruncateToIncrement(v, inc Decimal) Decimal {
	if inc.LessThanOrEqual(dzero) {
		return v
	}
	return v.Div(inc).Floor().Mul(inc)
}
