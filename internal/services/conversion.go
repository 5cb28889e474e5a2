package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-price-converter/internal/logger"
	"github.com/sbilibin2017/gw-price-converter/internal/models"
)

//go:generate mockgen -source=conversion.go -destination=mocks.go -package=services

// ExchangeRateReader fetches the rate of a currency against PLN for a date.
type ExchangeRateReader interface {
	GetExchangeRateForCurrency(ctx context.Context, currency, date string) (decimal.Decimal, error)
}

// ConvertedPriceWriter persists conversion records.
type ConvertedPriceWriter interface {
	Save(ctx context.Context, record models.ConversionRecord) (int64, error) // Returns the id assigned to the record
}

// ConvertedPriceReader reads stored conversion records.
type ConvertedPriceReader interface {
	GetAll(ctx context.Context) ([]models.ConversionRecord, error)
	GetByID(ctx context.Context, id int64) (models.ConversionRecord, error)
}

// ConversionService converts prices to PLN and stores the results.
type ConversionService struct {
	rates  ExchangeRateReader
	writer ConvertedPriceWriter
	reader ConvertedPriceReader
}

// NewConversionService creates a new ConversionService.
func NewConversionService(
	rates ExchangeRateReader,
	writer ConvertedPriceWriter,
	reader ConvertedPriceReader,
) *ConversionService {
	return &ConversionService{
		rates:  rates,
		writer: writer,
		reader: reader,
	}
}

// ConvertToPLN fetches today's rate for currency, converts price and saves the record.
func (svc *ConversionService) ConvertToPLN(
	ctx context.Context,
	currency string,
	price decimal.Decimal,
) (models.ConversionRecord, int64, error) {
	quote := NewRateQuote(svc.rates, currency, "")

	rate, err := quote.Rate(ctx)
	if err != nil {
		logger.Log.Errorw("failed to get exchange rate", "currency", currency, "date", quote.FetchDate(), "error", err)
		return models.ConversionRecord{}, 0, fmt.Errorf("get rate for %s: %w", currency, err)
	}

	record, err := models.NewConversionRecord(price, quote.Currency(), rate, quote.FetchDate())
	if err != nil {
		logger.Log.Errorw("failed to convert price", "currency", currency, "price", price, "rate", rate, "error", err)
		return models.ConversionRecord{}, 0, err
	}

	id, err := svc.writer.Save(ctx, record)
	if err != nil {
		logger.Log.Errorw("failed to save conversion", "record", record.String(), "error", err)
		return models.ConversionRecord{}, 0, fmt.Errorf("save conversion: %w", err)
	}

	logger.Log.Infow("price converted",
		"id", id,
		"currency", record.CurrencyCode,
		"price", record.SourceAmount,
		"rate", record.Rate,
		"date", record.RateDate,
		"price_in_pln", record.ConvertedAmount,
	)

	return record, id, nil
}

// ListRecords returns every stored conversion.
func (svc *ConversionService) ListRecords(ctx context.Context) ([]models.ConversionRecord, error) {
	records, err := svc.reader.GetAll(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list conversions", "error", err)
		return nil, err
	}
	return records, nil
}

// GetRecord returns one stored conversion.
func (svc *ConversionService) GetRecord(ctx context.Context, id int64) (models.ConversionRecord, error) {
	record, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get conversion", "id", id, "error", err)
		return models.ConversionRecord{}, err
	}
	return record, nil
}
