package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-price-converter/internal/logger"
	"github.com/sbilibin2017/gw-price-converter/internal/models"
)

// ErrNotFound is returned when no stored record has the requested id.
var ErrNotFound = errors.New("not found")

func notFound(entity string, id int64) error {
	return fmt.Errorf("%w: no object %s with id=%d", ErrNotFound, entity, id)
}

// jsonRow keeps amounts as JSON numbers in the document.
type jsonRow struct {
	ID         int64       `json:"id"`
	Currency   string      `json:"currency"`
	Rate       json.Number `json:"rate"`
	PriceInPLN json.Number `json:"price_in_pln"`
	Date       string      `json:"date"`
}

func toJSONRow(row models.ConvertedPriceRow) jsonRow {
	return jsonRow{
		ID:         row.ID,
		Currency:   row.Currency,
		Rate:       json.Number(row.Rate.String()),
		PriceInPLN: json.Number(row.PriceInPLN.String()),
		Date:       row.Date,
	}
}

func fromJSONRow(row jsonRow) (models.ConvertedPriceRow, error) {
	rate, err := decimal.NewFromString(row.Rate.String())
	if err != nil {
		return models.ConvertedPriceRow{}, fmt.Errorf("row %d rate: %w", row.ID, err)
	}
	price, err := decimal.NewFromString(row.PriceInPLN.String())
	if err != nil {
		return models.ConvertedPriceRow{}, fmt.Errorf("row %d price_in_pln: %w", row.ID, err)
	}

	return models.ConvertedPriceRow{
		ID:         row.ID,
		Currency:   row.Currency,
		Rate:       rate,
		PriceInPLN: price,
		Date:       row.Date,
	}, nil
}

// JSONFileRepository stores records in a single JSON document mapping id to row.
// Every Save rewrites the whole document; concurrent writers can lose updates.
type JSONFileRepository[T any] struct {
	path   string
	mapper models.Mapper[T]
}

// NewJSONFileRepository creates a repository backed by the document at path.
func NewJSONFileRepository[T any](path string, mapper models.Mapper[T]) *JSONFileRepository[T] {
	return &JSONFileRepository[T]{path: path, mapper: mapper}
}

// Save stores item under max existing id + 1, or 1 when the document is empty.
func (r *JSONFileRepository[T]) Save(ctx context.Context, item T) (int64, error) {
	doc, err := r.load()
	if err != nil {
		return 0, err
	}

	var id int64
	for key := range doc {
		if key > id {
			id = key
		}
	}
	id++

	row := r.mapper.Serialize(item)
	row.ID = id
	doc[id] = toJSONRow(row)

	err = r.write(doc)

	logger.Log.Infow("json document",
		"path", r.path,
		"op", "save",
		"args", []any{row.Currency, row.Rate, row.PriceInPLN, row.Date},
		"result", id,
		"error", err,
	)

	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetAll returns every stored record ordered by id.
func (r *JSONFileRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	doc, err := r.load()
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(doc))
	for id := range doc {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	items := make([]T, 0, len(ids))
	for _, id := range ids {
		item, err := r.decode(doc[id])
		if err != nil {
			logger.Log.Errorw("failed to decode stored record", "document", r.path, "id", id, "error", err)
			return nil, err
		}
		items = append(items, item)
	}

	logger.Log.Infow("json document",
		"path", r.path,
		"op", "get_all",
		"result", len(items),
	)

	return items, nil
}

// GetByID returns the record stored under id.
func (r *JSONFileRepository[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var zero T

	doc, err := r.load()
	if err != nil {
		return zero, err
	}

	row, ok := doc[id]
	if !ok {
		err := notFound(r.mapper.Entity, id)
		logger.Log.Errorw("record not found", "document", r.path, "id", id, "error", err)
		return zero, err
	}

	item, err := r.decode(row)
	if err != nil {
		logger.Log.Errorw("failed to decode stored record", "document", r.path, "id", id, "error", err)
		return zero, err
	}
	return item, nil
}

func (r *JSONFileRepository[T]) decode(row jsonRow) (T, error) {
	var zero T
	stored, err := fromJSONRow(row)
	if err != nil {
		return zero, err
	}
	return r.mapper.Deserialize(stored)
}

// load reads the document; a missing file is an empty store.
func (r *JSONFileRepository[T]) load() (map[int64]jsonRow, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[int64]jsonRow{}, nil
	}
	if err != nil {
		logger.Log.Errorw("failed to read document", "document", r.path, "error", err)
		return nil, fmt.Errorf("reading %s: %w", r.path, err)
	}
	if len(data) == 0 {
		return map[int64]jsonRow{}, nil
	}

	var raw map[string]jsonRow
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Log.Errorw("failed to decode document", "document", r.path, "error", err)
		return nil, fmt.Errorf("decoding %s: %w", r.path, err)
	}

	doc := make(map[int64]jsonRow, len(raw))
	for key, row := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: invalid id %q: %w", r.path, key, err)
		}
		row.ID = id
		doc[id] = row
	}
	return doc, nil
}

func (r *JSONFileRepository[T]) write(doc map[int64]jsonRow) error {
	raw := make(map[string]jsonRow, len(doc))
	for id, row := range doc {
		raw[strconv.FormatInt(id, 10)] = row
	}

	data, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", r.path, err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", r.path, err)
	}
	return nil
}
