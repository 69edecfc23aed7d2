package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newsflow/internal/common"
	"github.com/ternarybob/newsflow/internal/models"
)

const krxSourceName = "krx_disclosure"

// krxDetailLimit bounds disclosure detail fetches per cycle
const krxDetailLimit = 10

// KRXAdapter collects exchange disclosures for the current day. The
// disclosure board is a plain table, one filing per row.
type KRXAdapter struct {
	baseURL string
	fetcher *Fetcher
	loc     *time.Location
	logger  arbor.ILogger
}

func NewKRXAdapter(cfg *common.Config) *KRXAdapter {
	return &KRXAdapter{
		baseURL: "http://kind.krx.co.kr",
		fetcher: NewFetcher(krxSourceName, &cfg.Collector),
		loc:     cfg.Scheduler.Location(),
		logger:  common.GetLogger(),
	}
}

func (a *KRXAdapter) Name() string { return krxSourceName }

func (a *KRXAdapter) FetchAndParse(ctx context.Context) ([]*models.Article, error) {
	now := time.Now()
	day := now.In(a.loc).Format("20060102")
	listURL := fmt.Sprintf(
		"%s/disclosure/disclosure.do?method=search&currentPageSize=100&pageIndex=1&periodBegin=%s&periodEnd=%s",
		a.baseURL, day, day,
	)

	doc, err := a.fetcher.FetchDocument(ctx, listURL)
	if err != nil {
		return nil, err
	}

	table := firstMatch(doc, "table.board_list", "table")
	if table == nil {
		return nil, &ParseError{Source: krxSourceName, URL: listURL, Reason: "disclosure table not found"}
	}

	var articles []*models.Article
	seen := make(map[string]struct{})

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}
		article := a.parseRow(row, now)
		if article == nil {
			return
		}
		if _, ok := seen[article.ID]; ok {
			return
		}
		seen[article.ID] = struct{}{}
		articles = append(articles, article)
	})

	a.logger.Debug().Str("source", krxSourceName).Int("disclosures", len(articles)).Msg("disclosure list parsed")

	a.fetchDetails(ctx, articles)
	return articles, nil
}

func (a *KRXAdapter) parseRow(row *goquery.Selection, now time.Time) *models.Article {
	cells := row.Find("td, th")
	if cells.Length() < 4 {
		return nil
	}

	link := row.Find("a[href]").First()
	if link.Length() == 0 {
		return nil
	}
	title := nodeText(link)
	if title == "" {
		return nil
	}
	href, _ := link.Attr("href")
	if href == "" {
		return nil
	}
	full := absoluteURL(a.baseURL, href)

	dateStr := nodeText(cells.Last())
	company := nodeText(cells.First())

	return &models.Article{
		ID:          common.NewArticleID(krxSourceName, full, title),
		Title:       "[공시] " + title,
		PublishedAt: parsePublishedAt(dateStr, now, a.loc),
		Source:      krxSourceName,
		Category:    "공시",
		URL:         full,
		Stocks:      ExtractStockCodes(company + " " + title),
	}
}

func (a *KRXAdapter) fetchDetails(ctx context.Context, articles []*models.Article) {
	limit := krxDetailLimit
	if len(articles) < limit {
		limit = len(articles)
	}
	for _, article := range articles[:limit] {
		if ctx.Err() != nil {
			return
		}
		doc, err := a.fetcher.FetchDocument(ctx, article.URL)
		if err != nil {
			a.logger.Debug().Err(err).Str("url", article.URL).Msg("disclosure detail failed")
			continue
		}
		body := firstMatch(doc, "div.board_view", "div#content")
		if body == nil {
			continue
		}
		if content := nodeText(body); content != "" {
			article.Content = content
		}
	}
}
