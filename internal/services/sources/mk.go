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

const mkSourceName = "mk_news"

// MKAdapter collects economy, finance and markets news
type MKAdapter struct {
	baseURL  string
	sections []section
	fetcher  *Fetcher
	maxPages int
	loc      *time.Location
	logger   arbor.ILogger
}

func NewMKAdapter(cfg *common.Config) *MKAdapter {
	base := "https://www.mk.co.kr"
	return &MKAdapter{
		baseURL: base,
		sections: []section{
			{url: base + "/news/economy", category: "경제"},
			{url: base + "/news/finance", category: "금융"},
			{url: base + "/news/stock", category: "증시"},
		},
		fetcher:  NewFetcher(mkSourceName, &cfg.Collector),
		maxPages: cfg.Collector.MaxPages,
		loc:      cfg.Scheduler.Location(),
		logger:   common.GetLogger(),
	}
}

func (a *MKAdapter) Name() string { return mkSourceName }

func (a *MKAdapter) FetchAndParse(ctx context.Context) ([]*models.Article, error) {
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
				a.logger.Warn().Err(err).Str("source", mkSourceName).Str("url", pageURL).Msg("list page failed")
				continue
			}

			doc.Find("div[class*=article], div[class*=news], div[class*=list], li[class*=article], li[class*=news], li[class*=item], article").
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

			a.logger.Debug().Str("source", mkSourceName).Str("category", sec.category).
				Int("page", page).Msg("list page parsed")
		}
	}

	a.fetchDetails(ctx, articles)
	return articles, nil
}

func (a *MKAdapter) parseListItem(item *goquery.Selection, category string, now time.Time) *models.Article {
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
	if t := item.Find("time, [class*=date], [class*=time], [class*=reg]").First(); t.Length() > 0 {
		if dt, ok := t.Attr("datetime"); ok {
			dateStr = dt
		} else {
			dateStr = nodeText(t)
		}
	}
	summary := ""
	if s := item.Find("[class*=summary], [class*=desc], [class*=lead], [class*=intro]").First(); s.Length() > 0 {
		summary = nodeText(s)
	}

	return &models.Article{
		ID:          common.NewArticleID(mkSourceName, full, title),
		Title:       title,
		Content:     summary,
		PublishedAt: parsePublishedAt(dateStr, now, a.loc),
		Source:      mkSourceName,
		Category:    category,
		URL:         full,
		Stocks:      ExtractStockCodes(title + " " + summary),
	}
}

func (a *MKAdapter) fetchDetails(ctx context.Context, articles []*models.Article) {
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
			"div.news_cnt_detail_wrap",
			"div[class*=news_body]",
			"div[class*=article], div[class*=content]",
			"article",
		)
		if body == nil {
			continue
		}
		body.Find("script, style, iframe, ins, aside, [class*=ad], [class*=banner], [class*=related], [class*=recommend]").Remove()
		content := nodeText(body)
		if utf8.RuneCountInString(content) >= contentGoodLength {
			article.Content = content
			article.Stocks = mergeStockCodes(article.Stocks, ExtractStockCodes(content))
		}
	}
}
