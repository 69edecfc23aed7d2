package models

import (
	"time"
)

// Article is one ingested news item. The ID is derived deterministically
// from source + URL + title, so re-ingesting the same article updates the
// existing row instead of inserting a duplicate.
type Article struct {
	ID          string    `json:"id" badgerhold:"key"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at" badgerholdIndex:"PublishedAt"`
	Source      string    `json:"source" badgerholdIndex:"Source"`
	Category    string    `json:"category"`
	URL         string    `json:"url"`

	// Stocks holds the related stock codes in document order (may be empty)
	Stocks []string `json:"stocks" badgerholdSliceIndex:"Stocks"`

	SentimentScore  float64 `json:"sentiment_score"`  // -1.0 .. +1.0
	ImportanceScore float64 `json:"importance_score"` // 0.0 .. 1.0
	ImpactScore     float64 `json:"impact_score"`     // 0.0 .. 1.0
	TimelinessScore float64 `json:"timeliness_score"` // 0.0 .. 1.0
	OverallScore    float64 `json:"overall_score"`    // weighted blend, -0.4 .. 1.0

	// DuplicateCount tracks how many times this article was re-ingested
	DuplicateCount int `json:"duplicate_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MentionsStock reports whether the article references the given stock code
func (a *Article) MentionsStock(code string) bool {
	for _, s := range a.Stocks {
		if s == code {
			return true
		}
	}
	return false
}

// ArticleFilter narrows article queries. Zero values mean "no constraint".
type ArticleFilter struct {
	From         time.Time `json:"from,omitempty"`
	To           time.Time `json:"to,omitempty"`
	Source       string    `json:"source,omitempty"`
	StockCode    string    `json:"stock_code,omitempty"`
	Keyword      string    `json:"keyword,omitempty"` // free-text match on title/content
	MinOverall   *float64  `json:"min_overall,omitempty"`
	MinSentiment *float64  `json:"min_sentiment,omitempty"`
	MaxSentiment *float64  `json:"max_sentiment,omitempty"`
	Limit        int       `json:"limit,omitempty"`
}

// UpsertResult describes what a store write did
type UpsertResult int

const (
	UpsertInserted UpsertResult = iota
	UpsertUpdated
)

func (r UpsertResult) String() string {
	if r == UpsertInserted {
		return "inserted"
	}
	return "updated"
}
