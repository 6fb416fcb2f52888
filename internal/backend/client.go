package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/slicetomeetyou/internal/heatmap"
	"github.com/gokatarajesh/slicetomeetyou/internal/pizza"
	"github.com/gokatarajesh/slicetomeetyou/internal/quiz"
	httperrors "github.com/gokatarajesh/slicetomeetyou/pkg/http/errors"
)

const defaultTimeout = 10 * time.Second

// Endpoint names used for logs and metrics.
const (
	EndpointSubmit      = "submit"
	EndpointJoin        = "pizza_join"
	EndpointSummary     = "pizza_summary"
	EndpointAvailable   = "pizza_available"
	EndpointCreate      = "pizza_create"
	EndpointIngredients = "pizza_ingredients"
)

// Observer is told about every completed round trip. status is 0 on
// transport failure.
type Observer interface {
	ObserveRequest(endpoint string, status int, d time.Duration)
}

// Config holds connection details for the backend.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the times-tables and pizza party backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   Observer
	logger     zerolog.Logger
}

var _ quiz.Submitter = (*Client)(nil)

// NewClient builds a client. httpClient may be nil; observer may be nil.
func NewClient(cfg Config, httpClient *http.Client, observer Observer, logger zerolog.Logger) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		observer:   observer,
		logger:     logger.With().Str("component", "backend").Logger(),
	}
}

// Submit posts a finished session and returns the aggregates.
func (c *Client) Submit(ctx context.Context, batch quiz.SessionBatch) (*quiz.Result, error) {
	if batch.UserID == "" {
		return nil, httperrors.Validation(httperrors.ErrCodeMissingField, "user_id", "No user_id provided")
	}
	var wire struct {
		quiz.Result
		Heatmap map[string]heatmap.Cell `json:"heatmap"`
	}
	if err := c.do(ctx, EndpointSubmit, http.MethodPost, "/submit", batch, &wire); err != nil {
		return nil, err
	}
	out := wire.Result
	var skipped []string
	out.Heatmap, skipped = heatmap.FromWire(wire.Heatmap)
	if len(skipped) > 0 {
		c.logger.Warn().Strs("keys", skipped).Msg("ignoring malformed heatmap keys")
	}
	return &out, nil
}

// JoinParty registers an attendee. A response with success=false is an
// application error carrying the backend's message.
func (c *Client) JoinParty(ctx context.Context, req pizza.JoinRequest) (*pizza.JoinResult, error) {
	if _, err := pizza.NormalizePartyID(req.PartyNumber); err != nil {
		return nil, err
	}
	if req.CustomPizza.Preferences != nil {
		if err := req.CustomPizza.Preferences.Validate(); err != nil {
			return nil, err
		}
	}

	var out pizza.JoinResult
	if err := c.do(ctx, EndpointJoin, http.MethodPost, "/pizza/join", req, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, httperrors.Application(http.StatusOK, httperrors.ErrCodeJoinFailed, out.Error)
	}
	return &out, nil
}

// PartySummary fetches the summary of a party. The ID is validated first; a
// malformed ID never reaches the network.
func (c *Client) PartySummary(ctx context.Context, partyID string) (*pizza.Summary, error) {
	id, err := pizza.NormalizePartyID(partyID)
	if err != nil {
		return nil, err
	}
	var out pizza.Summary
	if err := c.do(ctx, EndpointSummary, http.MethodGet, "/pizza/summary/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AvailablePizzas lists the pizzas attendees can claim slices of.
func (c *Client) AvailablePizzas(ctx context.Context) (*pizza.AvailablePizzas, error) {
	var out pizza.AvailablePizzas
	if err := c.do(ctx, EndpointAvailable, http.MethodGet, "/pizza/available", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePizza adds a custom pizza to the menu.
func (c *Client) CreatePizza(ctx context.Context, req pizza.CreatePizzaRequest) (*pizza.CreateResult, error) {
	checked, err := pizza.NewCreatePizzaRequest(req.PizzaName, req.Ingredients)
	if err != nil {
		return nil, err
	}
	var out pizza.CreateResult
	if err := c.do(ctx, EndpointCreate, http.MethodPost, "/pizza/create", checked, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, httperrors.Application(http.StatusOK, httperrors.ErrCodeCreateFailed, out.Error)
	}
	return &out, nil
}

// Ingredients returns the backend's ingredient keys.
func (c *Client) Ingredients(ctx context.Context) ([]string, error) {
	var out struct {
		Ingredients []string `json:"ingredients"`
	}
	if err := c.do(ctx, EndpointIngredients, http.MethodGet, "/pizza/ingredients", nil, &out); err != nil {
		return nil, err
	}
	return out.Ingredients, nil
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.observe(endpoint, 0, elapsed)
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Dur("latency", elapsed).Msg("backend request failed")
		return httperrors.Network(endpoint, err)
	}
	defer resp.Body.Close()
	c.observe(endpoint, resp.StatusCode, elapsed)

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", elapsed).
		Msg("backend request")

	if resp.StatusCode >= 300 {
		apiErr := httperrors.FromResponse(resp)
		c.logger.Warn().Str("endpoint", endpoint).Int("status", resp.StatusCode).Str("error", apiErr.Message).Msg("backend rejected request")
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return httperrors.InvalidPayload(endpoint, err)
	}
	return nil
}

func (c *Client) observe(endpoint string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(endpoint, status, d)
	}
}
