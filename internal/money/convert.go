// Package money holds the decimal arithmetic used for price conversion.
//
// Results are always rounded to four fractional digits toward positive infinity
// (ceiling). The rounding is asymmetric on purpose: converting forward and back
// is not bit-exact, but the difference never exceeds one unit in the fourth place.
package money

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-price-converter/internal/logger"
)

// Places is the number of fractional digits kept after rounding.
const Places int32 = 4

// Operator selects the arithmetic applied by Convert.
type Operator string

const (
	Multiply Operator = "*"
	Divide   Operator = "/"
)

var (
	// ErrInvalidOperation is returned when an operand cannot be parsed as a decimal.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrDivisionByZero is returned when dividing by a zero rate.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrInvalidOperator is returned for anything other than Multiply or Divide.
	ErrInvalidOperator = errors.New("invalid operator, use '*' or '/'")
)

// Convert computes price*rate or price/rate and rounds the result up to four places.
// Operands may be decimals, numeric strings, floats or integers.
func Convert(price, rate any, op Operator) (decimal.Decimal, error) {
	p, err := ToDecimal(price)
	if err != nil {
		logger.Log.Errorw("failed to parse price", "price", price, "rate", rate, "operator", op, "error", err)
		return decimal.Zero, err
	}
	r, err := ToDecimal(rate)
	if err != nil {
		logger.Log.Errorw("failed to parse rate", "price", price, "rate", rate, "operator", op, "error", err)
		return decimal.Zero, err
	}

	switch op {
	case Multiply:
		return p.Mul(r).RoundCeil(Places), nil
	case Divide:
		if r.IsZero() {
			logger.Log.Errorw("division by zero", "price", price, "rate", rate, "error", ErrDivisionByZero)
			return decimal.Zero, ErrDivisionByZero
		}
		return divCeil(p, r), nil
	default:
		err := fmt.Errorf("%w: %q", ErrInvalidOperator, op)
		logger.Log.Errorw("unsupported operator", "price", price, "rate", rate, "operator", op, "error", err)
		return decimal.Zero, err
	}
}

// divCeil divides exactly and rounds the quotient toward positive infinity.
func divCeil(d, d2 decimal.Decimal) decimal.Decimal {
	q, r := d.QuoRem(d2, Places)
	// q is truncated toward zero; the dropped fraction is r/d2.
	if r.Sign()*d2.Sign() > 0 {
		q = q.Add(decimal.New(1, -Places))
	}
	return q
}

// ToDecimal renders v as a string first and parses that, so binary float
// artifacts never reach the arithmetic.
func ToDecimal(v any) (decimal.Decimal, error) {
	var s string
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, fmt.Errorf("%w: nil decimal", ErrInvalidOperation)
		}
		return *x, nil
	case string:
		s = x
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		s = strconv.Itoa(x)
	case int64:
		s = strconv.FormatInt(x, 10)
	case int32:
		s = strconv.FormatInt(int64(x), 10)
	case fmt.Stringer:
		s = x.String()
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported operand type %T", ErrInvalidOperation, v)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidOperation, s)
	}
	return d, nil
}
