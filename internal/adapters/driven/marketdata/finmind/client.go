// Package finmind fetches Taiwan market data from the FinMind open API.
package finmind

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/tsen1220/tw-stock-analyst/internal/core/domain"
	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driven"
)

// Ensure Client implements both provider interfaces.
var (
	_ driven.PriceProvider        = (*Client)(nil)
	_ driven.FundamentalsProvider = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultAPIURL  = "https://api.finmindtrade.com/api/v4/data"
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerMinute follows the API's free-tier quota.
	DefaultRequestsPerMinute = 300

	// Financial statements are quarterly; look back far enough to
	// always find at least one filed report.
	fundamentalLookbackYears = 2
)

// FinMind dataset names.
const (
	datasetPrice      = "TaiwanStockPrice"
	datasetStatements = "TaiwanStockFinancialStatements"
)

// Financial statement row types carrying the figures we report.
const (
	typeRevenue         = "Revenue"
	typeOperatingIncome = "OperatingIncome"
	typeNetIncome       = "IncomeAfterTaxes"
	typeEPS             = "EPS"
)

// Config holds the FinMind API settings.
type Config struct {
	// APIURL is the data endpoint (default: the public v4 endpoint).
	APIURL string

	// Token is the optional API token. Unauthenticated requests work
	// with a lower quota.
	Token string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerMinute caps the request rate (default: 300).
	RequestsPerMinute int
}

// Client is a rate-limited FinMind API client.
type Client struct {
	client  *http.Client
	apiURL  string
	token   string
	limiter *rate.Limiter
}

// apiResponse is the FinMind envelope. The data payload differs per
// dataset, so it is decoded in a second pass.
type apiResponse struct {
	Msg    string          `json:"msg"`
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// priceRow is one TaiwanStockPrice record. FinMind names the high and
// low columns "max" and "min".
type priceRow struct {
	Date          string  `json:"date"`
	Open          float64 `json:"open"`
	Max           float64 `json:"max"`
	Min           float64 `json:"min"`
	Close         float64 `json:"close"`
	TradingVolume int64   `json:"Trading_Volume"`
}

// statementRow is one TaiwanStockFinancialStatements record. Figures
// arrive as one row per account type.
type statementRow struct {
	Date  string  `json:"date"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// NewClient creates a FinMind client.
func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiURL:  cfg.APIURL,
		token:   cfg.Token,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
	}
}

// DailyPrices returns daily candles for the stock in [startDate, endDate],
// oldest first. Dates use the YYYY-MM-DD format.
func (c *Client) DailyPrices(ctx context.Context, stockID, startDate, endDate string) ([]domain.Candle, error) {
	raw, err := c.fetch(ctx, datasetPrice, stockID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	var rows []priceRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode price rows: %w", err)
	}

	candles := make([]domain.Candle, 0, len(rows))
	for _, row := range rows {
		candles = append(candles, domain.Candle{
			Date:   row.Date,
			Open:   row.Open,
			High:   row.Max,
			Low:    row.Min,
			Close:  row.Close,
			Volume: row.TradingVolume,
		})
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Date < candles[j].Date
	})

	return candles, nil
}

// LatestFundamentals returns the most recent quarterly report for the
// stock, or domain.ErrNoData when no statement has been filed in the
// lookback window.
func (c *Client) LatestFundamentals(ctx context.Context, stockID string) (*domain.FundamentalReport, error) {
	end := time.Now()
	start := end.AddDate(-fundamentalLookbackYears, 0, 0)

	raw, err := c.fetch(ctx, datasetStatements, stockID,
		start.Format(time.DateOnly), end.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}

	var rows []statementRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode statement rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("fundamentals for %s: %w", stockID, domain.ErrNoData)
	}

	// Rows come as one (date, type, value) triple per account. Keep
	// only the latest filing date, then project it onto the report.
	latest := ""
	for _, row := range rows {
		if row.Date > latest {
			latest = row.Date
		}
	}

	report := &domain.FundamentalReport{Date: latest}
	for _, row := range rows {
		if row.Date != latest {
			continue
		}
		switch row.Type {
		case typeRevenue:
			report.Revenue = row.Value
		case typeOperatingIncome:
			report.OperatingIncome = row.Value
		case typeNetIncome:
			report.NetIncome = row.Value
		case typeEPS:
			report.EPS = row.Value
		}
	}

	return report, nil
}

// fetch runs one rate-limited dataset request and returns the raw data
// payload.
func (c *Client) fetch(ctx context.Context, dataset, stockID, startDate, endDate string) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("dataset", dataset)
	params.Set("data_id", stockID)
	params.Set("start_date", startDate)
	params.Set("end_date", endDate)
	if c.token != "" {
		params.Set("token", c.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("finmind error (status %d): %s", resp.StatusCode, string(body))
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if envelope.Status != http.StatusOK {
		return nil, fmt.Errorf("finmind error (status %d): %s", envelope.Status, envelope.Msg)
	}

	return envelope.Data, nil
}
