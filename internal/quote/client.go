package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cambroos/rentals-backend/pkg/types"
)

const (
	idempotencyHeader = "Idempotency-Key"
	maxResponseBytes  = 1 << 20

	msgUnparseableError = "Network error occurred"
	msgNoSuccessFlag    = "Failed to send order request"
)

// Relay delivers a quote payload to the send-order endpoint.
type Relay interface {
	Send(ctx context.Context, payload types.OrderRequest, idempotencyKey string) (*RelayOutcome, error)
}

// RelayOutcome is a successful relay response.
type RelayOutcome struct {
	StatusCode int
	Message    string
}

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPRelay posts quote payloads as JSON. It never retries on its own.
type HTTPRelay struct {
	endpoint string
	client   httpDoer
}

// NewHTTPRelay builds a relay client for endpoint. A nil client gets a default
// one with the supplied timeout; a caller client without its own timeout gets it too.
func NewHTTPRelay(endpoint string, client *http.Client, timeout time.Duration) (*HTTPRelay, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("relay endpoint required")
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	} else if timeout > 0 && client.Timeout == 0 {
		c := *client
		c.Timeout = timeout
		client = &c
	}
	return &HTTPRelay{endpoint: endpoint, client: client}, nil
}

func (r *HTTPRelay) Send(ctx context.Context, payload types.OrderRequest, idempotencyKey string) (*RelayOutcome, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode quote payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if idempotencyKey != "" {
		req.Header.Set(idempotencyHeader, idempotencyKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	var decoded types.RelayResponse
	decodeErr := json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := decoded.Error
		switch {
		case decodeErr != nil:
			msg = msgUnparseableError
		case msg == "":
			msg = fmt.Sprintf("Server error: %d", resp.StatusCode)
		}
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: msgUnparseableError}
	}
	if !decoded.Success {
		msg := decoded.Error
		if msg == "" {
			msg = msgNoSuccessFlag
		}
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: msg}
	}

	return &RelayOutcome{StatusCode: resp.StatusCode, Message: decoded.Message}, nil
}
