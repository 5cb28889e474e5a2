package facades

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-price-converter/internal/logger"
)

// NBPBaseURL is the root of the National Bank of Poland rates API.
const NBPBaseURL = "https://api.nbp.pl/api/exchangerates"

// ErrInvalidResponse is returned when a 200 response does not carry a usable mid rate.
var ErrInvalidResponse = errors.New("invalid rates response")

var statusMessages = map[int]string{
	http.StatusNotFound:   "no data for this currency code, try later, it might be not published yet",
	http.StatusBadRequest: "incorrectly prepared service request",
}

// HTTPError is returned for any non-200 answer from the rates service.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s (status code: %d)", e.Message, e.StatusCode)
}

type nbpRatesResponse struct {
	Rates []struct {
		Mid json.RawMessage `json:"mid"`
	} `json:"rates"`
}

// ExchangeRatesHTTPFacade fetches today's mid rate from the remote table A endpoint.
type ExchangeRatesHTTPFacade struct {
	baseURL string
	client  *http.Client
}

// NewExchangeRatesHTTPFacade creates a facade over baseURL; a nil client means http.DefaultClient.
func NewExchangeRatesHTTPFacade(baseURL string, client *http.Client) *ExchangeRatesHTTPFacade {
	if client == nil {
		client = http.DefaultClient
	}
	return &ExchangeRatesHTTPFacade{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// URL returns the endpoint queried for currency.
func (f *ExchangeRatesHTTPFacade) URL(currency string) string {
	return fmt.Sprintf("%s/rates/a/%s/today/?format=json", f.baseURL, strings.ToLower(currency))
}

// GetExchangeRateForCurrency returns the first mid rate published today for currency.
// The endpoint only serves today's table, so date is used for logging alone.
// There is no retry: transport and status errors are returned as is.
func (f *ExchangeRatesHTTPFacade) GetExchangeRateForCurrency(ctx context.Context, currency, date string) (decimal.Decimal, error) {
	url := f.URL(currency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.Log.Errorw("failed to build rates request", "currency", currency, "url", url, "error", err)
		return decimal.Zero, fmt.Errorf("building http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Log.Errorw("rates request failed", "currency", currency, "url", url, "error", err)
		return decimal.Zero, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Log.Errorw("failed to read rates response", "currency", currency, "url", url, "error", err)
		return decimal.Zero, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg, ok := statusMessages[resp.StatusCode]
		if !ok {
			msg = strings.TrimSpace(string(body))
		}
		err := &HTTPError{StatusCode: resp.StatusCode, Message: msg}
		logger.Log.Errorw("rates service returned an error", "currency", currency, "url", url, "status", resp.StatusCode, "error", err)
		return decimal.Zero, err
	}

	rate, err := parseMidRate(resp.Header.Get("Content-Type"), body)
	if err != nil {
		logger.Log.Errorw("failed to parse rates response", "currency", currency, "url", url, "error", err)
		return decimal.Zero, err
	}

	logger.Log.Infow("rate fetched",
		"source", "api",
		"currency", currency,
		"date", date,
		"rate", rate,
	)

	return rate, nil
}

func parseMidRate(contentType string, body []byte) (decimal.Decimal, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "application/json" {
		return decimal.Zero, fmt.Errorf("%w: unexpected content type %q", ErrInvalidResponse, contentType)
	}

	var response nbpRatesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decoding json: %v", ErrInvalidResponse, err)
	}
	if len(response.Rates) == 0 {
		return decimal.Zero, fmt.Errorf("%w: no rates in response", ErrInvalidResponse)
	}

	return parseRate(response.Rates[0].Mid)
}

// parseRate accepts a JSON number only; strings, null and a missing field are rejected.
func parseRate(raw json.RawMessage) (decimal.Decimal, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if len(raw) == 0 || dec.Decode(&v) != nil {
		return decimal.Zero, fmt.Errorf("%w: missing rate", ErrInvalidResponse)
	}
	n, ok := v.(json.Number)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: rate %s is not numeric", ErrInvalidResponse, raw)
	}

	rate, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: rate %s is not numeric", ErrInvalidResponse, raw)
	}
	return rate, nil
}
