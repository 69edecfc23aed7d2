package sources

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newsflow/internal/common"
	"github.com/ternarybob/newsflow/internal/models"
)

const naverSourceName = "naver_finance"

// minTitleRunes filters out navigation links masquerading as articles
const minTitleRunes = 10

// detailFetchLimit bounds how many detail pages one cycle fetches
const detailFetchLimit = 20

var naverDateInText = regexp.MustCompile(`\d{4}\.\d{2}\.\d{2}\s+\d{2}:\d{2}`)

// NaverAdapter collects finance news from list pages that expose
// articles as bare anchor tags rather than structured list items.
type NaverAdapter struct {
	baseURL  string
	sections []section
	fetcher  *Fetcher
	maxPages int
	loc      *time.Location
	logger   arbor.ILogger
}

type section struct {
	url      string
	category string
}

func NewNaverAdapter(cfg *common.Config) *NaverAdapter {
	base := "https://finance.naver.com"
	return &NaverAdapter{
		baseURL: base,
		sections: []section{
			{url: base + "/news/news_list.naver?mode=LSS2D&section_id=101&section_id2=258", category: "증시"},
			{url: base + "/news/news_list.naver?mode=LSS2D&section_id=101&section_id2=259", category: "경제"},
			{url: base + "/news/news_list.naver?mode=LSS2D&section_id=101&section_id2=260", category: "산업"},
		},
		fetcher:  NewFetcher(naverSourceName, &cfg.Collector),
		maxPages: cfg.Collector.MaxPages,
		loc:      cfg.Scheduler.Location(),
		logger:   common.GetLogger(),
	}
}

func (a *NaverAdapter) Name() string { return naverSourceName }

func (a *NaverAdapter) FetchAndParse(ctx context.Context) ([]*models.Article, error) {
	now := time.Now()
	var articles []*models.Article
	seenURLs := make(map[string]struct{})
	seenTitles := make(map[string]struct{})

	for _, sec := range a.sections {
		for page := 1; page <= a.maxPages; page++ {
			pageURL := fmt.Sprintf("%s&page=%d", sec.url, page)
			doc, err := a.fetcher.FetchDocument(ctx, pageURL)
			if err != nil {
				if ctx.Err() != nil {
					return articles, err
				}
				a.logger.Warn().Err(err).Str("source", naverSourceName).Str("url", pageURL).Msg("list page failed")
				continue
			}

			found := a.parseListPage(doc, sec.category, now, seenURLs, seenTitles)
			articles = append(articles, found...)

			a.logger.Debug().Str("source", naverSourceName).Str("category", sec.category).
				Int("page", page).Int("articles", len(found)).Msg("list page parsed")
		}
	}

	a.fetchDetails(ctx, articles)
	return articles, nil
}

// parseListPage walks every anchor on the page and keeps the ones that
// look like article links: a news path and a headline-length title.
func (a *NaverAdapter) parseListPage(doc *goquery.Document, category string, now time.Time, seenURLs, seenTitles map[string]struct{}) []*models.Article {
	var found []*models.Article

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if !isNaverNewsLink(href) {
			return
		}

		full := absoluteURL(a.baseURL, href)
		if _, ok := seenURLs[full]; ok {
			return
		}
		seenURLs[full] = struct{}{}

		title := nodeText(link)
		if utf8.RuneCountInString(title) < minTitleRunes {
			return
		}
		if _, ok := seenTitles[title]; ok {
			return
		}
		seenTitles[title] = struct{}{}

		// Date and summary live on surrounding elements, not the anchor
		dateStr, summary := scrapeListContext(link)
		publishedAt := parsePublishedAt(dateStr, now, a.loc)

		found = append(found, &models.Article{
			ID:          common.NewArticleID(naverSourceName, full, title),
			Title:       title,
			Content:     summary,
			PublishedAt: publishedAt,
			Source:      naverSourceName,
			Category:    category,
			URL:         full,
			Stocks:      ExtractStockCodes(title + " " + summary),
		})
	})

	return found
}

// fetchDetails replaces list-page summaries with full article bodies
// for the newest items
func (a *NaverAdapter) fetchDetails(ctx context.Context, articles []*models.Article) {
	limit := detailFetchLimit
	if len(articles) < limit {
		limit = len(articles)
	}
	for _, article := range articles[:limit] {
		if ctx.Err() != nil {
			return
		}
		doc, err := a.fetcher.FetchDocument(ctx, article.URL)
		if err != nil {
			a.logger.Debug().Err(err).Str("url", article.URL).Msg("detail page failed")
			continue
		}

		body := firstMatch(doc,
			"div.articleBody",
			"div#newsEndContents",
			"div[class*=article]",
			"div[id*=article]",
			"article",
		)
		if body == nil {
			continue
		}
		body.Find("script, style, iframe, ins, aside").Remove()
		content := nodeText(body)
		if content == "" {
			continue
		}
		article.Content = content
		article.Stocks = mergeStockCodes(article.Stocks, ExtractStockCodes(content))
	}
}

func isNaverNewsLink(href string) bool {
	switch {
	case strings.Contains(href, "/news/read"),
		strings.Contains(href, "/news/news_view"),
		strings.Contains(href, "/news/news_read"):
		return true
	case strings.HasPrefix(href, "/news/") && strings.Contains(href, "article_id"):
		return true
	}
	return false
}

// scrapeListContext looks up to three ancestors for a date stamp and a
// summary near the article link
func scrapeListContext(link *goquery.Selection) (dateStr, summary string) {
	parent := link.Parent()
	for i := 0; i < 3 && parent.Length() > 0; i++ {
		if dateStr == "" {
			if t := parent.Find("time, span[class*=date], span[class*=time], [class*=date]").First(); t.Length() > 0 {
				if dt, ok := t.Attr("datetime"); ok {
					dateStr = dt
				} else {
					dateStr = nodeText(t)
				}
			} else if m := naverDateInText.FindString(parent.Text()); m != "" {
				dateStr = m
			}
		}
		if summary == "" {
			if s := parent.Find("[class*=summary], [class*=desc], [class*=lead]").First(); s.Length() > 0 {
				summary = nodeText(s)
			}
		}
		if dateStr != "" && summary != "" {
			break
		}
		parent = parent.Parent()
	}
	return dateStr, summary
}

// firstMatch returns the first selector that matches anything
func firstMatch(doc *goquery.Document, selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	return nil
}

// absoluteURL resolves href against the site base
func absoluteURL(base, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}
