package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sbilibin2017/gw-price-converter/internal/logger"
)

// isoCodeKey is the field holding the ISO 4217 code in the allow-list file.
const isoCodeKey = "Symbol waluty (kod ISO)"

// CurrencyCodeFileRepository reads the list of accepted currency codes.
type CurrencyCodeFileRepository struct {
	path string
}

func NewCurrencyCodeFileRepository(path string) *CurrencyCodeFileRepository {
	return &CurrencyCodeFileRepository{path: path}
}

// GetCodes returns the upper-cased codes in file order, skipping entries without a code.
func (r *CurrencyCodeFileRepository) GetCodes(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		logger.Log.Errorw("failed to read currency codes", "path", r.path, "error", err)
		return nil, fmt.Errorf("reading %s: %w", r.path, err)
	}

	var entries []map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Log.Errorw("failed to decode currency codes", "path", r.path, "error", err)
		return nil, fmt.Errorf("decoding %s: %w", r.path, err)
	}

	codes := make([]string, 0, len(entries))
	for _, entry := range entries {
		code, ok := entry[isoCodeKey].(string)
		if !ok || strings.TrimSpace(code) == "" {
			continue
		}
		codes = append(codes, strings.ToUpper(strings.TrimSpace(code)))
	}

	logger.Log.Infow("currency codes loaded", "path", r.path, "count", len(codes))
	return codes, nil
}
