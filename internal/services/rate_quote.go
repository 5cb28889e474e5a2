package services

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format shared by rate sources and stored records.
const DateLayout = "2006-01-02"

// RateQuote pairs a currency with its rate for a date. The rate is fetched on first use
// and kept for the lifetime of the quote.
type RateQuote struct {
	reader    ExchangeRateReader
	currency  string
	fetchDate string

	mu      sync.Mutex
	fetched bool
	rate    decimal.Decimal
}

// NewRateQuote creates a quote for currency. An empty fetchDate means today.
func NewRateQuote(reader ExchangeRateReader, currency, fetchDate string) *RateQuote {
	return &RateQuote{
		reader:    reader,
		currency:  currency,
		fetchDate: fetchDate,
	}
}

// Currency returns the quoted currency code.
func (q *RateQuote) Currency() string {
	return q.currency
}

// FetchDate returns the date the rate applies to, defaulting to the current local date.
func (q *RateQuote) FetchDate() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.date()
}

func (q *RateQuote) date() string {
	if q.fetchDate == "" {
		q.fetchDate = time.Now().Format(DateLayout)
	}
	return q.fetchDate
}

// Rate returns the cached rate, calling the reader only when no rate has been fetched yet.
// A failed fetch is not cached.
func (q *RateQuote) Rate(ctx context.Context) (decimal.Decimal, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.fetched {
		return q.rate, nil
	}

	rate, err := q.reader.GetExchangeRateForCurrency(ctx, q.currency, q.date())
	if err != nil {
		return decimal.Zero, err
	}

	q.rate = rate
	q.fetched = true
	return rate, nil
}
