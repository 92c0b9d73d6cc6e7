package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vidgen/internal/backend"
	"vidgen/internal/domain"
	"vidgen/internal/infra"
)

// Prediction is the wire shape shared by the submission and poll responses.
// Output stays raw because its type depends on the model: a single URL
// string or a sequence of URLs.
type Prediction struct {
	ID     string           `json:"id"`
	Status domain.JobStatus `json:"status"`
	Output json.RawMessage  `json:"output"`
	Error  string           `json:"error"`
}

// ClientOptions configures the HTTP client used to reach the gateway.
type ClientOptions struct {
	// BaseURL is the gateway's proxied API root, e.g.
	// http://localhost:8080/api. The client itself carries no credential.
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client issues submission and poll requests through the proxy gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient constructs a client with sane defaults.
func NewClient(opts ClientOptions) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		logger:     opts.Logger,
	}
}

// Submit posts a payload to the backend's submission endpoint and returns
// the created prediction.
func (c *Client) Submit(ctx context.Context, endpoint string, payload backend.Payload) (*Prediction, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// Poll fetches the current state of a prediction by identifier.
func (c *Client) Poll(ctx context.Context, id string) (*Prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/predictions/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("build poll request: %w", err)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Prediction, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.UpstreamError{
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(raw),
		}
	}

	var pred Prediction
	if err := json.Unmarshal(raw, &pred); err != nil {
		return nil, fmt.Errorf("decode prediction: %w", err)
	}
	if c.logger != nil {
		c.logger.Debug().
			Str("id", pred.ID).
			Str("status", string(pred.Status)).
			Msg("orchestrator: prediction response")
	}
	return &pred, nil
}

// errorDetail pulls a human-readable message out of an error response body.
// The upstream API uses a top-level "detail" field; the gateway's own errors
// nest a message under "error".
func errorDetail(raw []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ""
	}
	if parsed.Detail != "" {
		return parsed.Detail
	}
	return parsed.Error.Message
}

// resolveOutput extracts the media location from a succeeded prediction:
// the first element if the output is a sequence, the value itself if it is
// a single URL. Empty or absent output yields an empty string.
func resolveOutput(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many[0]
	}
	return ""
}
