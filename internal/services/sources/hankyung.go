package sources

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newsflow/internal/common"
	"github.com/ternarybob/newsflow/internal/models"
)

const hankyungSourceName = "hankyung"

// contentGoodLength is the body length at which a detail page is
// considered fully extracted
const contentGoodLength = 50

// HankyungAdapter collects economy and markets news across the site's
// sections. List items are structured, so parsing walks article
// containers instead of bare anchors.
type HankyungAdapter struct {
	baseURL  string
	sections []section
	fetcher  *Fetcher
	maxPages int
	loc      *time.Location
	logger   arbor.ILogger
}

func NewHankyungAdapter(cfg *common.Config) *HankyungAdapter {
	base := "https://www.hankyung.com"
	return &HankyungAdapter{
		baseURL: base,
		sections: []section{
			{url: base + "/economy", category: "경제"},
			{url: base + "/financial-market", category: "금융시장"},
			{url: base + "/industry", category: "산업"},
			{url: base + "/tech", category: "기술"},
			{url: base + "/international", category: "국제"},
			{url: base + "/distribution", category: "유통"},
		},
		fetcher:  NewFetcher(hankyungSourceName, &cfg.Collector),
		maxPages: cfg.Collector.MaxPages,
		loc:      cfg.Scheduler.Location(),
		logger:   common.GetLogger(),
	}
}

func (a *HankyungAdapter) Name() string { return hankyungSourceName }

func (a *HankyungAdapter) FetchAndParse(ctx context.Context) ([]*models.Article, error) {
	now := time.Now()
	var articles []*models.Article
	seen := make(map[string]struct{})

	for _, sec := range a.sections {
		for page := 1; page <= a.maxPages; page++ {
			pageURL := fmt.Sprintf("%s?page=%d", sec.url, page)
			doc, err := a.fetcher.FetchDocument(ctx, pageURL)
			if err != nil {
				if ctx.Err() != nil {
					return articles, err
				}
				a.logger.Warn().Err(err).Str("source", hankyungSourceName).Str("url", pageURL).Msg("list page failed")
				continue
			}

			doc.Find("div[class*=article], div[class*=news], li[class*=article], li[class*=news], li[class*=item], article").
				Each(func(_ int, item *goquery.Selection) {
					article := a.parseListItem(item, sec.category, now)
					if article == nil {
						return
					}
					if _, ok := seen[article.ID]; ok {
						return
					}
					seen[article.ID] = struct{}{}
					articles = append(articles, article)
				})

			a.logger.Debug().Str("source", hankyungSourceName).Str("category", sec.category).
				Int("page", page).Msg("list page parsed")
		}
	}

	// Every article gets a detail fetch; the list summary is kept as a
	// fallback when the body extraction comes up short.
	for _, article := range articles {
		if ctx.Err() != nil {
			break
		}
		a.enrichFromDetail(ctx, article)
	}

	return articles, nil
}

func (a *HankyungAdapter) parseListItem(item *goquery.Selection, category string, now time.Time) *models.Article {
	link := item.Find("a[href]").First()
	if link.Length() == 0 {
		return nil
	}
	title := nodeText(link)
	if utf8.RuneCountInString(title) < minTitleRunes {
		return nil
	}
	href, _ := link.Attr("href")
	if href == "" {
		return nil
	}
	full := absoluteURL(a.baseURL, href)

	dateStr := ""
	if t := item.Find("time, [class*=date], [class*=time]").First(); t.Length() > 0 {
		if dt, ok := t.Attr("datetime"); ok {
			dateStr = dt
		} else {
			dateStr = nodeText(t)
		}
	}
	summary := ""
	if s := item.Find("[class*=summary], [class*=desc], [class*=lead], [class*=preview]").First(); s.Length() > 0 {
		summary = nodeText(s)
	}

	return &models.Article{
		ID:          common.NewArticleID(hankyungSourceName, full, title),
		Title:       title,
		Content:     summary,
		PublishedAt: parsePublishedAt(dateStr, now, a.loc),
		Source:      hankyungSourceName,
		Category:    category,
		URL:         full,
		Stocks:      ExtractStockCodes(title + " " + summary),
	}
}

// enrichFromDetail fetches the article page and decides between body,
// summary, or a merge of the two. Short bodies merged with the summary
// beat either alone; a failed fetch keeps the summary.
func (a *HankyungAdapter) enrichFromDetail(ctx context.Context, article *models.Article) {
	summary := article.Content

	doc, err := a.fetcher.FetchDocument(ctx, article.URL)
	if err != nil {
		a.logger.Debug().Err(err).Str("url", article.URL).Msg("detail page failed")
		return
	}

	content := extractArticleBody(doc)

	switch {
	case utf8.RuneCountInString(content) >= contentGoodLength:
		article.Content = content
	case utf8.RuneCountInString(content) >= 10 && utf8.RuneCountInString(summary) >= 10:
		article.Content = content + " " + summary
	case utf8.RuneCountInString(summary) >= 10:
		article.Content = summary
	default:
		if content != "" {
			article.Content = content
		}
	}

	article.Stocks = mergeStockCodes(article.Stocks, ExtractStockCodes(content))
}

// extractArticleBody tries body selectors from most to least specific,
// falling back to joining substantive paragraphs
func extractArticleBody(doc *goquery.Document) string {
	body := firstMatch(doc,
		"div.article-body",
		"div#article-body",
		"div.article_body",
		"div[class*=article-body], div[class*=article_body]",
		"div[class*=news_body], div[class*=article_view], div[class*=article_content]",
		"section[class*=article], section[class*=content]",
		"article",
		"main",
	)
	if body != nil {
		body.Find("script, style, iframe, ins, aside, [class*=ad], [class*=banner], [class*=related], [class*=recommend]").Remove()
		if text := nodeText(body); utf8.RuneCountInString(text) >= contentGoodLength {
			return text
		}
	}

	// Paragraph fallback for pages whose container never matches
	var parts []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := nodeText(p)
		if utf8.RuneCountInString(text) > 20 {
			parts = append(parts, text)
		}
	})
	joined := ""
	for i, p := range parts {
		if i > 0 {
			joined += " "
		}
		joined += p
	}
	if body != nil {
		if text := nodeText(body); utf8.RuneCountInString(text) > utf8.RuneCountInString(joined) {
			return text
		}
	}
	return joined
}
