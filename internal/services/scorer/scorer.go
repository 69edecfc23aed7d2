// Package scorer computes the four score components and the overall
// blend for an article. Scoring is a pure function of the article and
// the evaluation time, so re-scoring the same input always yields the
// same output.
package scorer

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ternarybob/newsflow/internal/common"
	"github.com/ternarybob/newsflow/internal/models"
)

// Scorer holds the overall-score weights. Component formulas are fixed;
// only the final blend is configurable.
type Scorer struct {
	weights common.ScoringConfig
}

func New(weights common.ScoringConfig) *Scorer {
	return &Scorer{weights: weights}
}

// Score computes all score fields on the article in place. The title
// carries 70% of the sentiment weight since headlines are editorialized
// toward the story's direction while bodies pad with background.
func (s *Scorer) Score(a *models.Article, now time.Time) {
	titleSentiment := SentimentScore(a.Title)
	contentSentiment := SentimentScore(a.Content)
	sentiment := titleSentiment*0.7 + contentSentiment*0.3

	// Strong keywords in the title shift sentiment past what the ratio
	// alone expresses.
	title := strings.ToLower(a.Title)
	if containsAny(title, strongPositive) {
		sentiment = math.Min(1.0, sentiment+0.3)
	}
	if containsAny(title, strongNegative) {
		sentiment = math.Max(-1.0, sentiment-0.3)
	}

	text := a.Title + " " + a.Content

	importance := ImportanceScore(text, a.Source, a.Category)
	if titleMentionsStock(a.Title, a.Stocks) {
		importance = math.Min(1.0, importance+0.2)
	}

	a.SentimentScore = round3(sentiment)
	a.ImportanceScore = round3(importance)
	a.ImpactScore = round3(ImpactScore(text, a.Stocks))
	a.TimelinessScore = round3(TimelinessScore(a.PublishedAt, now))
	a.OverallScore = round3(s.Overall(a.SentimentScore, a.ImportanceScore, a.ImpactScore, a.TimelinessScore))
}

// Overall blends the four components with the configured weights
func (s *Scorer) Overall(sentiment, importance, impact, timeliness float64) float64 {
	return sentiment*s.weights.SentimentWeight +
		importance*s.weights.ImportanceWeight +
		impact*s.weights.ImpactWeight +
		timeliness*s.weights.TimelinessWeight
}

// SentimentScore computes keyword-ratio sentiment for one text in
// [-1.0, +1.0]. Compound expressions are matched first and removed so
// their constituents are not double counted, then positive and negative
// keywords are counted with negation-aware polarity.
func SentimentScore(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}

	text = strings.ToLower(text)

	compoundScore := 0
	for _, ce := range compoundExpressions {
		if strings.Contains(text, ce.phrase) {
			compoundScore += ce.sentiment
			text = strings.ReplaceAll(text, ce.phrase, " ")
		}
	}

	// A negated positive keyword counts as negative and vice versa
	posNormal, posNegated := countWithNegation(text, positiveKeywords)
	negNormal, negNegated := countWithNegation(text, negativeKeywords)

	positive := posNormal + negNegated
	negative := negNormal + posNegated

	if compoundScore > 0 {
		positive += compoundScore
	} else if compoundScore < 0 {
		negative += -compoundScore
	}

	var score float64
	switch {
	case negative > positive:
		score = -math.Min(1.0, float64(negative)/float64(positive+1))
	case positive > negative:
		score = math.Min(1.0, float64(positive)/float64(negative+1))
	}

	// Fallback for the one-sided case the ratio leaves at zero
	if score == 0.0 {
		if negative > 0 && positive == 0 {
			score = -0.5
		} else if positive > 0 && negative == 0 {
			score = 0.5
		}
	}

	return math.Max(-1.0, math.Min(1.0, score))
}

// ImportanceScore computes importance in [0.0, 1.0]:
// keywords 40% + source credibility 30% + category weight 30%.
// Five or more importance keywords saturate the keyword term.
func ImportanceScore(text, source, category string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}

	text = strings.ToLower(text)

	count := 0
	for _, kw := range importanceKeywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			count++
		}
	}

	credibility, ok := sourceCredibility[source]
	if !ok {
		credibility = defaultCredibility
	}
	weight, ok := categoryWeight[category]
	if !ok {
		weight = defaultCredibility
	}

	keywordScore := math.Min(1.0, float64(count)*0.2)
	return math.Min(1.0, keywordScore*0.4+credibility*0.3+weight*0.3)
}

// ImpactScore computes market impact in [0.0, 1.0]:
// keywords 40% + related stock count 30% + text length 30%.
// Length is measured in runes; a 1000-character body saturates the term.
func ImpactScore(text string, stocks []string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}

	lower := strings.ToLower(text)

	count := 0
	for _, kw := range impactKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			count++
		}
	}

	keywordScore := math.Min(1.0, float64(count)*0.3)
	stockScore := math.Min(1.0, float64(len(stocks))*0.2)
	lengthScore := math.Min(1.0, float64(utf8.RuneCountInString(text))/1000)

	return math.Min(1.0, keywordScore*0.4+stockScore*0.3+lengthScore*0.3)
}

// TimelinessScore steps down with article age: 1.0 within 24h, 0.5
// within 48h, 0.2 within a week, 0.1 beyond. An unknown publication
// time scores the midpoint.
func TimelinessScore(publishedAt, now time.Time) float64 {
	if publishedAt.IsZero() {
		return 0.5
	}

	hours := math.Abs(now.Sub(publishedAt).Hours())
	switch {
	case hours <= 24:
		return 1.0
	case hours <= 48:
		return 0.5
	case hours <= 168:
		return 0.2
	default:
		return 0.1
	}
}

// countWithNegation counts keyword occurrences in text, splitting them
// into normally-matched and negation-reversed. An occurrence is reversed
// when a negation word appears within the preceding negationWindow words.
func countWithNegation(text string, keywords []string) (normal, negated int) {
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		start := 0
		for {
			i := strings.Index(text[start:], kw)
			if i < 0 {
				break
			}
			pos := start + i
			if negationBefore(text[:pos]) {
				negated++
			} else {
				normal++
			}
			start = pos + len(kw)
		}
	}
	return normal, negated
}

func negationBefore(prefix string) bool {
	words := strings.Fields(prefix)
	if len(words) > negationWindow {
		words = words[len(words)-negationWindow:]
	}
	for _, w := range words {
		for _, neg := range negationWords {
			if strings.Contains(w, neg) {
				return true
			}
		}
	}
	return false
}

// titleMentionsStock reports whether any related stock code appears
// verbatim in the title. Single-character codes are ignored as noise.
func titleMentionsStock(title string, stocks []string) bool {
	for _, code := range stocks {
		code = strings.TrimSpace(code)
		if utf8.RuneCountInString(code) >= 2 && strings.Contains(title, code) {
			return true
		}
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
