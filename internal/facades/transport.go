package facades

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoggingTransport logs every outgoing request and its response.
// Each request gets an X-Request-ID header so it can be traced on the rates service side.
type LoggingTransport struct {
	next http.RoundTripper
	log  *zap.SugaredLogger
}

// NewLoggingTransport wraps next; a nil next means http.DefaultTransport.
func NewLoggingTransport(next http.RoundTripper, log *zap.SugaredLogger) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &LoggingTransport{next: next, log: log}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqID := uuid.New().String()

	// RoundTrip must not modify the caller's request
	req = req.Clone(req.Context())
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	duration := time.Since(start)

	t.log.Infow("request",
		"request_id", reqID,
		"method", req.Method,
		"uri", req.URL.String(),
		"duration", duration,
	)

	if err != nil {
		t.log.Errorw("response",
			"request_id", reqID,
			"error", err,
		)
		return nil, err
	}

	t.log.Infow("response",
		"request_id", reqID,
		"status", resp.StatusCode,
		"content_length", resp.ContentLength,
	)
	return resp, nil
}
