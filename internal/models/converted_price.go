package models

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-price-converter/internal/money"
)

// ConvertedPriceRow is the stored shape of a conversion, shared by the JSON document
// and the converted_prices table. The source amount is not stored.
type ConvertedPriceRow struct {
	ID         int64           `json:"id" db:"id"`
	Currency   string          `json:"currency" db:"currency"`
	Rate       decimal.Decimal `json:"rate" db:"rate"`
	PriceInPLN decimal.Decimal `json:"price_in_pln" db:"price_in_pln"`
	Date       string          `json:"date" db:"date"`
}

// Mapper converts between a record type and its stored row.
// Storage backends are generic over it instead of the record knowing its schema.
type Mapper[T any] struct {
	Entity      string
	Serialize   func(T) ConvertedPriceRow
	Deserialize func(ConvertedPriceRow) (T, error)
}

// ConversionRecordMapper maps ConversionRecord to and from ConvertedPriceRow.
var ConversionRecordMapper = Mapper[ConversionRecord]{
	Entity:      ConversionRecordEntity,
	Serialize:   SerializeConversionRecord,
	Deserialize: DeserializeConversionRecord,
}

// SerializeConversionRecord drops the source amount; it is recomputed on read.
func SerializeConversionRecord(r ConversionRecord) ConvertedPriceRow {
	return ConvertedPriceRow{
		Currency:   r.CurrencyCode,
		Rate:       r.Rate,
		PriceInPLN: r.ConvertedAmount,
		Date:       r.RateDate,
	}
}

// DeserializeConversionRecord rebuilds a record, deriving the source amount as
// price_in_pln / rate with the same ceiling rounding as the forward conversion.
func DeserializeConversionRecord(row ConvertedPriceRow) (ConversionRecord, error) {
	source, err := money.Convert(row.PriceInPLN, row.Rate, money.Divide)
	if err != nil {
		return ConversionRecord{}, fmt.Errorf("deserialize row %d: %w", row.ID, err)
	}

	return ConversionRecord{
		SourceAmount:    source,
		CurrencyCode:    row.Currency,
		Rate:            row.Rate,
		RateDate:        row.Date,
		ConvertedAmount: row.PriceInPLN,
	}, nil
}
