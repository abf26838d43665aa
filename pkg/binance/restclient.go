package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type RESTClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *RESTClient) HTTPClient() *http.Client {
	return c.httpClient
}

// GetTickers fetches the 24h rolling ticker of every symbol.
func (c *RESTClient) GetTickers(ctx context.Context) ([]RESTTicker, error) {
	var tickers []RESTTicker
	if err := c.get(ctx, "/api/v3/ticker/24hr", &tickers); err != nil {
		return nil, err
	}
	return tickers, nil
}

// GetSymbolPairs fetches base/quote assets of every trading symbol.
func (c *RESTClient) GetSymbolPairs(ctx context.Context) ([]SymbolPair, error) {
	var info ExchangeInfoResponse
	if err := c.get(ctx, "/api/v3/exchangeInfo", &info); err != nil {
		return nil, err
	}

	pairs := make([]SymbolPair, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.Status != "TRADING" {
			continue
		}
		pairs = append(pairs, SymbolPair{Symbol: s.Symbol, Base: s.BaseAsset, Quote: s.QuoteAsset})
	}
	return pairs, nil
}

func (c *RESTClient) get(ctx context.Context, path string, out any) error {
	endpoint := c.baseURL + path

	// Construct the GET request with context for timeout/cancel support
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var apiErr APIError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Msg != "" {
			return fmt.Errorf("binance error %d: %s", apiErr.Code, apiErr.Msg)
		}
		return fmt.Errorf("binance error: status=%d body=%s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
