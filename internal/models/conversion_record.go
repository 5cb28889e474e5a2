package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-price-converter/internal/money"
)

// ConversionRecordEntity is the entity name used in storage error messages.
const ConversionRecordEntity = "ConversionRecord"

// ConversionRecord is the result of converting one price to PLN.
// It is a value type: copies never share state and nothing mutates it after construction.
type ConversionRecord struct {
	SourceAmount    decimal.Decimal `json:"source_amount"` // Original price in the source currency
	CurrencyCode    string          `json:"currency"`      // Lower-cased ISO 4217 code
	Rate            decimal.Decimal `json:"rate"`          // PLN per one unit of the source currency
	RateDate        string          `json:"date"`          // YYYY-MM-DD the rate applies to
	ConvertedAmount decimal.Decimal `json:"price_in_pln"`  // SourceAmount*Rate, rounded up to four places
}

// NewConversionRecord computes the PLN amount for price at rate and builds the record.
func NewConversionRecord(price decimal.Decimal, currency string, rate decimal.Decimal, rateDate string) (ConversionRecord, error) {
	converted, err := money.Convert(price, rate, money.Multiply)
	if err != nil {
		return ConversionRecord{}, err
	}

	return ConversionRecord{
		SourceAmount:    price,
		CurrencyCode:    strings.ToLower(currency),
		Rate:            rate,
		RateDate:        rateDate,
		ConvertedAmount: converted,
	}, nil
}

// String renders the record as "<amount> <CODE> --> <pln> PLN".
func (r ConversionRecord) String() string {
	return fmt.Sprintf("%s %s --> %s PLN", r.SourceAmount, strings.ToUpper(r.CurrencyCode), r.ConvertedAmount)
}

// Equal reports whether both records hold the same values, ignoring decimal exponents.
func (r ConversionRecord) Equal(o ConversionRecord) bool {
	return r.SourceAmount.Equal(o.SourceAmount) &&
		r.CurrencyCode == o.CurrencyCode &&
		r.Rate.Equal(o.Rate) &&
		r.RateDate == o.RateDate &&
		r.ConvertedAmount.Equal(o.ConvertedAmount)
}
