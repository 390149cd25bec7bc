// Package client wraps the single POST the UI makes to the analysis service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/deepread/internal/model"
	"github.com/ppiankov/deepread/internal/normalize"
	"github.com/ppiankov/deepread/internal/util"
)

var (
	// ErrRequestFailed covers transport errors and non-2xx responses alike
	ErrRequestFailed = errors.New("analysis request failed")

	// ErrMalformedResponse means the 2xx body could not be mapped to a report
	ErrMalformedResponse = errors.New("malformed analysis response")
)

// Client posts analysis requests to one fixed endpoint
type Client struct {
	httpClient   *http.Client
	endpoint     string
	userAgent    string
	maxBytes     int64
	strictSchema bool
	logger       *zap.Logger
}

// New creates a client from configuration. A nil logger disables logging.
func New(cfg model.ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = model.DefaultEndpoint
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 4_000_000
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
			},
		},
		endpoint:     endpoint,
		userAgent:    cfg.UserAgent,
		maxBytes:     maxBytes,
		strictSchema: cfg.StrictSchema,
		logger:       logger,
	}
}

// Endpoint returns the URL requests are sent to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Analyze issues exactly one POST and returns the normalized report.
// There is no retry; the caller decides what a failure means for the UI.
func (c *Client) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Report, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrRequestFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("posting analysis request",
		zap.String("endpoint", c.endpoint),
		zap.String("kind", string(req.Kind)),
		zap.Int("input_len", len(req.Data)))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little so the connection can be reused; the body is not inspected
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrRequestFailed, err)
	}

	if c.strictSchema {
		missing, err := normalize.MissingRequired(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: missing %s", ErrMalformedResponse, strings.Join(missing, ", "))
		}
	}

	report, err := normalize.Normalize(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	c.logger.Debug("analysis response normalized",
		zap.String("shape", string(normalize.Detect(body))),
		zap.Int("core_arguments", len(report.CoreArguments)),
		zap.Int("key_quotes", len(report.KeyQuotes)))

	return report, nil
}
