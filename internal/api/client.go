// Package api provides the HTTP client for the trading-journal backend.
//
// Every response arrives in a {data, message} envelope. Success payloads are
// decoded from data; non-2xx responses become a *errors.RequestError carrying
// the server's message verbatim so views can surface it unchanged.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"

	errs "gapjournal/internal/errors"
	"gapjournal/internal/logging"
	"gapjournal/internal/models"
)

// Client talks to the journal backend. It holds no state beyond connection
// settings; callers re-fetch after every mutation.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Config holds client construction parameters.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// New creates a backend client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     cfg.Logger,
	}
}

// envelope is the backend's uniform response shape.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"error"`
}

// do issues one request and decodes the envelope. out may be nil when the
// caller only needs the message. The returned string is the server message.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out interface{}) (string, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return "", errs.Wrapf(err, "encoding %s %s body", method, path)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return "", errs.Wrapf(err, "building %s %s", method, path)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.LogAPICall(c.logger, method, path, 0, time.Since(start), err)
		sentinel := errs.ErrServerUnavailable
		var ne net.Error
		if errs.As(err, &ne) && ne.Timeout() {
			sentinel = errs.ErrTimeout
		}
		return "", errs.Wrapf(sentinel, "%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decErr := json.NewDecoder(resp.Body).Decode(&env)

	logging.LogAPICall(c.logger, method, path, resp.StatusCode, time.Since(start), decErr)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", errs.NewRequestError(method, path, resp.StatusCode, env.Code, msg)
	}
	if decErr != nil {
		return "", errs.Wrapf(errs.ErrBadResponse, "%s %s: %v", method, path, decErr)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env.Message, errs.Wrapf(errs.ErrBadResponse, "%s %s data: %v", method, path, err)
		}
	}
	return env.Message, nil
}

// ScanQuery holds the scanner's optional filters. Zero-valued optional
// fields are omitted from the query string.
type ScanQuery struct {
	MinGap    float64 `url:"min_gap"`
	Direction string  `url:"direction,omitempty"`
	Symbols   string  `url:"symbols,omitempty"`
	Date      string  `url:"date,omitempty"`
}

// ScanGaps runs a gap scan.
func (c *Client) ScanGaps(ctx context.Context, sq ScanQuery) (models.ScanResult, error) {
	q, err := query.Values(sq)
	if err != nil {
		return models.ScanResult{}, errs.Wrap(err, "encoding scan query")
	}
	var result models.ScanResult
	if _, err := c.do(ctx, http.MethodGet, "/api/scanner/gaps", q, nil, &result); err != nil {
		return models.ScanResult{}, err
	}
	return result, nil
}

// TradeFilter narrows the trade list. Status is server-interpreted; an empty
// symbol matches everything.
type TradeFilter struct {
	Status string `url:"status,omitempty"`
	Symbol string `url:"symbol,omitempty"`
}

// ListTrades fetches the filtered trade list.
func (c *Client) ListTrades(ctx context.Context, f TradeFilter) (models.TradePage, error) {
	q, err := query.Values(f)
	if err != nil {
		return models.TradePage{}, errs.Wrap(err, "encoding trade filter")
	}
	var page models.TradePage
	if _, err := c.do(ctx, http.MethodGet, "/api/trades/", q, nil, &page); err != nil {
		return models.TradePage{}, err
	}
	return page, nil
}

// TradeCreate is the create-trade request body. Pointer fields marshal to
// null when unset, matching what the backend expects for optional inputs.
type TradeCreate struct {
	Symbol      string                `json:"symbol"`
	Direction   models.TradeDirection `json:"direction"`
	GapType     models.GapType        `json:"gap_type"`
	EntryPrice  float64               `json:"entry_price"`
	Quantity    int                   `json:"quantity"`
	GapPercent  *float64              `json:"gap_percent"`
	SetupRating *int                  `json:"setup_rating"`
	Notes       *string               `json:"notes"`
	EntryDate   *time.Time            `json:"entry_date,omitempty"`
}

// CreateTrade records a new trade and returns it with the server message.
func (c *Client) CreateTrade(ctx context.Context, tc TradeCreate) (models.Trade, string, error) {
	var trade models.Trade
	msg, err := c.do(ctx, http.MethodPost, "/api/trades/", nil, tc, &trade)
	logging.LogMutation(c.logger, "trade", "create", trade.ID, err)
	if err != nil {
		return models.Trade{}, "", err
	}
	return trade, msg, nil
}

// CloseTrade closes an open trade by supplying its exit price. The server
// computes pnl and flips the status.
func (c *Client) CloseTrade(ctx context.Context, id int, exitPrice float64) (models.Trade, string, error) {
	body := struct {
		ExitPrice float64 `json:"exit_price"`
	}{ExitPrice: exitPrice}

	var trade models.Trade
	msg, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/trades/%d", id), nil, body, &trade)
	logging.LogMutation(c.logger, "trade", "close", id, err)
	if err != nil {
		return models.Trade{}, "", err
	}
	return trade, msg, nil
}

// DeleteTrade removes a trade.
func (c *Client) DeleteTrade(ctx context.Context, id int) (string, error) {
	msg, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/trades/%d", id), nil, nil, nil)
	logging.LogMutation(c.logger, "trade", "delete", id, err)
	return msg, err
}

// ListWatchlist fetches watchlist items, optionally restricted to active ones.
func (c *Client) ListWatchlist(ctx context.Context, activeOnly bool) ([]models.WatchlistItem, error) {
	q := url.Values{}
	q.Set("active_only", fmt.Sprintf("%t", activeOnly))
	var items []models.WatchlistItem
	if _, err := c.do(ctx, http.MethodGet, "/api/watchlist/", q, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// WatchlistCreate is the create-item request body. The scanner's Watch action
// sends only symbol and sector; the watchlist form fills the rest.
type WatchlistCreate struct {
	Symbol      string   `json:"symbol"`
	TargetPrice *float64 `json:"target_price"`
	Sector      *string  `json:"sector"`
	Notes       *string  `json:"notes"`
}

// CreateWatchlistItem adds a symbol to the watchlist.
func (c *Client) CreateWatchlistItem(ctx context.Context, wc WatchlistCreate) (models.WatchlistItem, string, error) {
	var item models.WatchlistItem
	msg, err := c.do(ctx, http.MethodPost, "/api/watchlist/", nil, wc, &item)
	logging.LogMutation(c.logger, "watchlist", "create", item.ID, err)
	if err != nil {
		return models.WatchlistItem{}, "", err
	}
	return item, msg, nil
}

// WatchlistUpdate is the partial-update request body.
type WatchlistUpdate struct {
	TargetPrice *float64 `json:"target_price"`
	Sector      *string  `json:"sector"`
	Notes       *string  `json:"notes"`
	IsActive    bool     `json:"is_active"`
}

// UpdateWatchlistItem applies a partial update to an item.
func (c *Client) UpdateWatchlistItem(ctx context.Context, id int, wu WatchlistUpdate) (models.WatchlistItem, string, error) {
	var item models.WatchlistItem
	msg, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/watchlist/%d", id), nil, wu, &item)
	logging.LogMutation(c.logger, "watchlist", "update", id, err)
	if err != nil {
		return models.WatchlistItem{}, "", err
	}
	return item, msg, nil
}

// DeleteWatchlistItem removes an item.
func (c *Client) DeleteWatchlistItem(ctx context.Context, id int) (string, error) {
	msg, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/watchlist/%d", id), nil, nil, nil)
	logging.LogMutation(c.logger, "watchlist", "delete", id, err)
	return msg, err
}

// GetSummary fetches the overall performance summary.
func (c *Client) GetSummary(ctx context.Context) (models.StatsSummary, error) {
	var s models.StatsSummary
	if _, err := c.do(ctx, http.MethodGet, "/api/stats/summary", nil, nil, &s); err != nil {
		return models.StatsSummary{}, err
	}
	return s, nil
}

// GetPnlSeries fetches the pnl time series. days is a day count or "all".
func (c *Client) GetPnlSeries(ctx context.Context, days string) (models.PnlSeries, error) {
	q := url.Values{}
	q.Set("period", "daily")
	if days != "" {
		q.Set("days", days)
	}
	var series models.PnlSeries
	if _, err := c.do(ctx, http.MethodGet, "/api/stats/pnl-series", q, nil, &series); err != nil {
		return models.PnlSeries{}, err
	}
	return series, nil
}

// GetGapTypeBreakdown fetches trade stats grouped by gap type.
func (c *Client) GetGapTypeBreakdown(ctx context.Context) (models.GapTypeBreakdown, error) {
	var b models.GapTypeBreakdown
	if _, err := c.do(ctx, http.MethodGet, "/api/stats/by-gap-type", nil, nil, &b); err != nil {
		return nil, err
	}
	return b, nil
}
