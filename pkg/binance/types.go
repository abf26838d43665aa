package binance

// StreamTicker is one element of the "!ticker@arr" all-market ticker stream.
// Numeric values are sent as strings, ids and times as numbers.
//
// Every documented key has its own field: encoding/json falls back to
// case-insensitive matching, so a missing "C" would land on "c".
type StreamTicker struct {
	EventType          string `json:"e"` // "24hrTicker"
	EventTime          int64  `json:"E"` // event time (ms since epoch)
	Symbol             string `json:"s"` // e.g. "BNBBTC"
	PriceChange        string `json:"p"`
	PriceChangePercent string `json:"P"` // 24h change, in percent
	WeightedAvgPrice   string `json:"w"`
	FirstTradePrice    string `json:"x"` // last price before the 24h window
	CurrentClose       string `json:"c"` // last price
	LastQty            string `json:"Q"`
	BestBid            string `json:"b"`
	BestBidQty         string `json:"B"`
	BestAsk            string `json:"a"`
	BestAskQty         string `json:"A"`
	Open               string `json:"o"`
	High               string `json:"h"` // 24h high
	Low                string `json:"l"` // 24h low
	Volume             string `json:"v"`
	QuoteVolume        string `json:"q"`
	OpenTime           int64  `json:"O"`
	CloseTime          int64  `json:"C"`
	FirstTradeID       int64  `json:"F"`
	LastTradeID        int64  `json:"L"`
	TradeCount         int64  `json:"n"`
}

// RESTTicker is one element of GET /api/v3/ticker/24hr.
type RESTTicker struct {
	Symbol             string `json:"symbol"`
	PriceChange        string `json:"priceChange"`
	PriceChangePercent string `json:"priceChangePercent"`
	LastPrice          string `json:"lastPrice"`
	HighPrice          string `json:"highPrice"`
	LowPrice           string `json:"lowPrice"`
	Volume             string `json:"volume"`
	QuoteVolume        string `json:"quoteVolume"`
	CloseTime          int64  `json:"closeTime"`
}

// ExchangeInfoResponse is the subset of GET /api/v3/exchangeInfo we use.
type ExchangeInfoResponse struct {
	ServerTime int64 `json:"serverTime"`
	Symbols    []struct {
		Symbol     string `json:"symbol"`     // e.g. "ETHBTC"
		Status     string `json:"status"`     // e.g. "TRADING"
		BaseAsset  string `json:"baseAsset"`  // e.g. "ETH"
		QuoteAsset string `json:"quoteAsset"` // e.g. "BTC"
	} `json:"symbols"`
}

// SymbolPair splits a trading symbol into base and quote assets.
type SymbolPair struct {
	Symbol string
	Base   string
	Quote  string
}

// APIError is the error body Binance returns with non-200 responses.
type APIError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// SubscribeRequest is the live subscription message for the combined WS endpoint.
type SubscribeRequest struct {
	Method string   `json:"method"` // "SUBSCRIBE"
	Params []string `json:"params"` // e.g. ["!ticker@arr"]
	ID     int64    `json:"id"`
}
