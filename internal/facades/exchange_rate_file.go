package facades

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-price-converter/internal/logger"
)

var (
	// ErrCurrencyNotFound is returned when the snapshot has no entry list for the currency.
	ErrCurrencyNotFound = errors.New("no exchange rate for the specified currency in snapshot")
	// ErrRateNotFound is returned when the currency exists but no entry matches the date.
	ErrRateNotFound = errors.New("no exchange rate for the specified currency for the requested date in snapshot")
)

// SnapshotEntry is one dated rate in the local snapshot file.
type SnapshotEntry struct {
	Date string          `json:"date"` // YYYY-MM-DD
	Rate json.RawMessage `json:"rate"` // Parsed lazily so one bad entry does not break the whole file
}

// Snapshot maps an upper-cased ISO code to its entries, newest first.
type Snapshot map[string][]SnapshotEntry

// LoadSnapshot reads and decodes a snapshot file.
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Log.Errorw("failed to read rates snapshot", "path", path, "error", err)
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		logger.Log.Errorw("failed to decode rates snapshot", "path", path, "error", err)
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}

	return snapshot, nil
}

// ExchangeRatesFileFacade serves rates from a pre-loaded snapshot.
type ExchangeRatesFileFacade struct {
	snapshot Snapshot
}

// NewExchangeRatesFileFacade creates a facade over snapshot.
func NewExchangeRatesFileFacade(snapshot Snapshot) *ExchangeRatesFileFacade {
	return &ExchangeRatesFileFacade{snapshot: snapshot}
}

// GetExchangeRateForCurrency returns the rate of the first entry dated exactly date.
// Older entries are never used as a fallback.
func (f *ExchangeRatesFileFacade) GetExchangeRateForCurrency(ctx context.Context, currency, date string) (decimal.Decimal, error) {
	entries, ok := f.snapshot[strings.ToUpper(currency)]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrCurrencyNotFound, currency)
		logger.Log.Errorw("currency missing from snapshot", "currency", currency, "date", date, "error", err)
		return decimal.Zero, err
	}

	for _, entry := range entries {
		if entry.Date != date {
			continue
		}

		rate, err := parseSnapshotRate(entry.Rate)
		if err != nil {
			err = fmt.Errorf("%w: rate %s for %q on %s is not numeric", ErrInvalidResponse, entry.Rate, currency, date)
			logger.Log.Errorw("invalid rate in snapshot", "currency", currency, "date", date, "error", err)
			return decimal.Zero, err
		}

		logger.Log.Infow("rate fetched",
			"source", "local",
			"currency", currency,
			"date", date,
			"rate", rate,
		)
		return rate, nil
	}

	err := fmt.Errorf("%w: %q on %s", ErrRateNotFound, currency, date)
	logger.Log.Errorw("no snapshot rate for date", "currency", currency, "date", date, "error", err)
	return decimal.Zero, err
}

// parseSnapshotRate accepts a JSON number or numeric string. decimal.UnmarshalJSON
// leaves the value unset for null, so null is rejected here.
func parseSnapshotRate(raw json.RawMessage) (decimal.Decimal, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return decimal.Zero, errors.New("rate is null or missing")
	}

	var rate decimal.Decimal
	if err := rate.UnmarshalJSON(trimmed); err != nil {
		return decimal.Zero, err
	}
	return rate, nil
}
