// Package signals derives buy/sell/hold classifications from stored
// article scores. Signals are computed on demand and never persisted,
// so a re-scored corpus immediately changes what the engine reports.
package signals

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newsflow/internal/common"
	"github.com/ternarybob/newsflow/internal/interfaces"
	"github.com/ternarybob/newsflow/internal/models"
)

// signalFetchLimit bounds how many articles one signal reads
const signalFetchLimit = 100

// newsCountSaturation is the article count at which the news-volume
// term of the composite score maxes out
const newsCountSaturation = 10.0

// Engine computes trading signals from the article store
type Engine struct {
	articles interfaces.ArticleStorage
	config   common.SignalsConfig
	logger   arbor.ILogger
}

func NewEngine(articles interfaces.ArticleStorage, config common.SignalsConfig) *Engine {
	return &Engine{
		articles: articles,
		config:   config,
		logger:   common.GetLogger(),
	}
}

// Signal analyzes one stock over the trailing window. Zero qualifying
// articles is a valid hold at the confidence floor, not an error.
func (e *Engine) Signal(stockCode string, windowDays int) (*models.StockSignal, error) {
	if windowDays < 1 {
		windowDays = 1
	}
	now := time.Now()
	from := startOfDay(now.AddDate(0, 0, -(windowDays - 1)))

	articles, err := e.articles.GetByStock(stockCode, signalFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load articles for %s: %w", stockCode, err)
	}

	var windowed []*models.Article
	for _, a := range articles {
		if !a.PublishedAt.Before(from) && !a.PublishedAt.After(now) {
			windowed = append(windowed, a)
		}
	}

	signal := e.build(stockCode, windowDays, windowed, now)
	return &signal, nil
}

// SignalBatch computes signals for several stocks in one call
func (e *Engine) SignalBatch(stockCodes []string, windowDays int) ([]*models.StockSignal, error) {
	result := make([]*models.StockSignal, 0, len(stockCodes))
	for _, code := range stockCodes {
		signal, err := e.Signal(code, windowDays)
		if err != nil {
			return nil, err
		}
		result = append(result, signal)
	}
	return result, nil
}

// ScanMarket groups today's articles by stock and classifies every
// mentioned stock into buy, sell, or watch candidate lists.
func (e *Engine) ScanMarket() (*models.MarketScan, error) {
	now := time.Now()
	from := startOfDay(now)

	articles, err := e.articles.Query(&models.ArticleFilter{From: from, To: now})
	if err != nil {
		return nil, fmt.Errorf("failed to load today's articles: %w", err)
	}

	byStock := make(map[string][]*models.Article)
	for _, a := range articles {
		for _, code := range a.Stocks {
			byStock[code] = append(byStock[code], a)
		}
	}

	scan := &models.MarketScan{
		TotalNews:       len(articles),
		StocksMentioned: len(byStock),
		AnalyzedAt:      now,
	}

	for code, stockArticles := range byStock {
		signal := e.build(code, 1, stockArticles, now)
		switch {
		case signal.Signal == models.SignalBuy:
			scan.BuyCandidates = append(scan.BuyCandidates, signal)
		case signal.Signal == models.SignalSell:
			scan.SellCandidates = append(scan.SellCandidates, signal)
		case isWatchCandidate(&signal, e.config.MinNewsCount):
			scan.WatchCandidates = append(scan.WatchCandidates, signal)
		}
	}

	// Strongest conviction first on both actionable lists
	sort.Slice(scan.BuyCandidates, func(i, j int) bool {
		return scan.BuyCandidates[i].CompositeScore > scan.BuyCandidates[j].CompositeScore
	})
	sort.Slice(scan.SellCandidates, func(i, j int) bool {
		return scan.SellCandidates[i].CompositeScore < scan.SellCandidates[j].CompositeScore
	})
	sort.Slice(scan.WatchCandidates, func(i, j int) bool {
		return scan.WatchCandidates[i].NewsCount > scan.WatchCandidates[j].NewsCount
	})

	e.logger.Info().Int("total_news", scan.TotalNews).Int("stocks", scan.StocksMentioned).
		Int("buy", len(scan.BuyCandidates)).Int("sell", len(scan.SellCandidates)).
		Int("watch", len(scan.WatchCandidates)).Msg("market scan complete")

	return scan, nil
}

// build aggregates article scores and applies the decision policy
func (e *Engine) build(stockCode string, windowDays int, articles []*models.Article, now time.Time) models.StockSignal {
	signal := models.StockSignal{
		StockCode:  stockCode,
		WindowDays: windowDays,
		NewsCount:  len(articles),
		Signal:     models.SignalHold,
		Confidence: e.config.ConfidenceFloor,
		Reason:     "뉴스 없음",
		AnalyzedAt: now,
	}
	if len(articles) == 0 {
		return signal
	}

	var sentimentSum, overallSum float64
	for _, a := range articles {
		sentimentSum += a.SentimentScore
		overallSum += a.OverallScore
		switch {
		case a.SentimentScore > 0:
			signal.PositiveCount++
		case a.SentimentScore < 0:
			signal.NegativeCount++
		default:
			signal.NeutralCount++
		}
	}
	n := float64(len(articles))
	signal.AvgSentiment = round3(sentimentSum / n)
	signal.AvgOverall = round3(overallSum / n)

	newsScore := math.Min(n/newsCountSaturation, 1.0)
	signal.CompositeScore = round3(signal.AvgSentiment*0.4 + signal.AvgOverall*0.4 + newsScore*0.2)

	e.decide(&signal)
	return signal
}

// decide applies the threshold policy. A sell requires high average
// overall alongside negative sentiment: widely-reported negative news
// is actionable, while low-relevance negativity stays a hold.
func (e *Engine) decide(signal *models.StockSignal) {
	cfg := e.config

	if signal.NewsCount < cfg.MinNewsCount {
		signal.Reason = fmt.Sprintf("뉴스 부족 (%d건, 최소 %d건)", signal.NewsCount, cfg.MinNewsCount)
		signal.Confidence = math.Max(cfg.ConfidenceFloor, 0.3)
		return
	}

	switch {
	case signal.AvgSentiment > cfg.BuySentiment &&
		signal.AvgOverall > cfg.BuyOverall &&
		signal.PositiveCount > signal.NegativeCount:

		signal.Signal = models.SignalBuy
		signal.Confidence = round3(math.Min(0.5+signal.AvgSentiment*0.3+signal.AvgOverall*0.2, 1.0))
		signal.Reason = fmt.Sprintf("긍정적 뉴스 우세 (평균 감성: %.3f, 종합: %.3f)",
			signal.AvgSentiment, signal.AvgOverall)

	case signal.AvgSentiment < -cfg.SellSentiment &&
		signal.AvgOverall >= cfg.SellOverall &&
		signal.NegativeCount > signal.PositiveCount:

		signal.Signal = models.SignalSell
		signal.Confidence = round3(math.Min(0.5+math.Abs(signal.AvgSentiment)*0.3+signal.AvgOverall*0.2, 1.0))
		signal.Reason = fmt.Sprintf("부정적 뉴스 우세 (평균 감성: %.3f, 종합: %.3f)",
			signal.AvgSentiment, signal.AvgOverall)

	default:
		signal.Confidence = math.Max(cfg.ConfidenceFloor, 0.3)
		signal.Reason = "신호 혼재 또는 임계값 미달"
	}
}

// isWatchCandidate marks stocks with enough mixed coverage to monitor
func isWatchCandidate(signal *models.StockSignal, minNews int) bool {
	return signal.NewsCount >= minNews &&
		signal.AvgSentiment >= -0.1 && signal.AvgSentiment <= 0.1 &&
		signal.PositiveCount > 0 && signal.NegativeCount > 0
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
