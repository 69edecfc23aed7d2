package models

import (
	"time"
)

// SignalLabel is the derived buy/sell/hold classification
type SignalLabel string

const (
	SignalBuy  SignalLabel = "buy"
	SignalSell SignalLabel = "sell"
	SignalHold SignalLabel = "hold"
)

// StockSignal is a pure function of stored articles at query time; it is
// never persisted and has no independent lifecycle.
type StockSignal struct {
	StockCode  string `json:"stock_code"`
	WindowDays int    `json:"window_days"`

	NewsCount      int     `json:"news_count"`
	AvgSentiment   float64 `json:"avg_sentiment"`
	AvgOverall     float64 `json:"avg_overall"`
	PositiveCount  int     `json:"positive_count"`
	NegativeCount  int     `json:"negative_count"`
	NeutralCount   int     `json:"neutral_count"`
	CompositeScore float64 `json:"composite_score"`

	Signal     SignalLabel `json:"signal"`
	Confidence float64     `json:"confidence"` // 0.0 .. 1.0
	Reason     string      `json:"reason"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}

// MarketScan lists signal candidates across all stocks mentioned in a window
type MarketScan struct {
	TotalNews       int           `json:"total_news"`
	StocksMentioned int           `json:"stocks_mentioned"`
	BuyCandidates   []StockSignal `json:"buy_candidates"`
	SellCandidates  []StockSignal `json:"sell_candidates"`
	WatchCandidates []StockSignal `json:"watch_candidates"`
	AnalyzedAt      time.Time     `json:"analyzed_at"`
}
