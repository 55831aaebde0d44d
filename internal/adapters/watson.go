package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ZanzyTHEbar/emotion-detector/internal/config"
	"github.com/ZanzyTHEbar/emotion-detector/internal/errors"
)

const (
	// WatsonAPIName identifies the service in logs and error details
	WatsonAPIName = "watson-nlp"

	modelIDHeader   = "grpc-metadata-mm-model-id"
	maxResponseSize = 1 << 20
)

// WatsonRequest is the body expected by the NLP Analyze endpoint
type WatsonRequest struct {
	RawDocument RawDocument `json:"raw_document"`
}

// RawDocument carries the text to analyze
type RawDocument struct {
	Text string `json:"text"`
}

// WatsonResponse is the status and body returned by the service
type WatsonResponse struct {
	StatusCode int
	Body       []byte
}

// WatsonAdapter calls the Watson NLP emotion workflow
type WatsonAdapter struct {
	url       string
	modelID   string
	client    *http.Client
	transport *http.Transport

	calls    int64
	failures int64
}

// NewWatsonAdapter creates an adapter with its own pooled transport
func NewWatsonAdapter(cfg config.Config) *WatsonAdapter {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &WatsonAdapter{
		url:       cfg.WatsonURL,
		modelID:   cfg.WatsonModelID,
		transport: transport,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}
}

// Analyze posts text to the emotion workflow and returns the raw reply.
// Transport failures, non-2xx statuses and bodies that are not valid JSON
// are returned as categorized *errors.AppError values. When the service
// answered at all, the reply is returned alongside the error.
func (w *WatsonAdapter) Analyze(ctx context.Context, text string) (*WatsonResponse, error) {
	atomic.AddInt64(&w.calls, 1)

	resp, err := w.post(ctx, text)
	if err != nil {
		atomic.AddInt64(&w.failures, 1)
	}
	return resp, err
}

func (w *WatsonAdapter) post(ctx context.Context, text string) (*WatsonResponse, error) {
	payload, err := json.Marshal(WatsonRequest{RawDocument: RawDocument{Text: text}})
	if err != nil {
		return nil, errors.NewInternalError("failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewInternalError("failed to build request", err)
	}
	req.Header.Set(modelIDHeader, w.modelID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, errors.ToAppError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.ToAppError(err)
	}

	reply := &WatsonResponse{StatusCode: resp.StatusCode, Body: body}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return reply, errors.NewExternalAPIError(WatsonAPIName, resp.StatusCode,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if !gjson.ValidBytes(body) {
		return reply, errors.NewExternalAPIError(WatsonAPIName, 0,
			fmt.Errorf("invalid JSON response body (%d bytes)", len(body)))
	}

	return reply, nil
}

// Endpoint returns the configured service URL
func (w *WatsonAdapter) Endpoint() string {
	return w.url
}

// GetStats returns call counters and transport settings
func (w *WatsonAdapter) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"calls":                   atomic.LoadInt64(&w.calls),
		"failures":                atomic.LoadInt64(&w.failures),
		"max_idle_conns":          w.transport.MaxIdleConns,
		"max_idle_conns_per_host": w.transport.MaxIdleConnsPerHost,
		"idle_timeout_ms":         w.transport.IdleConnTimeout.Milliseconds(),
		"request_timeout_ms":      w.client.Timeout.Milliseconds(),
	}
}

// Close releases idle connections
func (w *WatsonAdapter) Close() error {
	w.transport.CloseIdleConnections()
	return nil
}
