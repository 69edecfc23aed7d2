package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/newsflow/internal/common"
)

func testConfig() *common.Config {
	cfg := common.NewDefaultConfig()
	cfg.Collector.RequestDelay = "1ms"
	cfg.Collector.MaxPages = 1
	return cfg
}

func TestNaverAdapterFetchAndParse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/list", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<ul>
				<li>
					<a href="/news/read?article_id=101&office_id=001">삼성전자 영업이익 증가 발표</a>
					<span class="date">2026.01.14 09:30</span>
				</li>
				<li>
					<a href="/news/read?article_id=102&office_id=001">현대차 수출 확대로 실적 개선</a>
					<span class="date">2026.01.14 10:00</span>
				</li>
				<li><a href="/somewhere/else">메뉴</a></li>
			</ul>
		</body></html>`)
	})
	mux.HandleFunc("/news/read", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<div class="articleBody">반도체 수요 회복으로 관련주 005930 주가가 상승했다.
			업계에서는 실적 개선 흐름이 이어질 것으로 전망한다.</div>
		</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	adapter := NewNaverAdapter(testConfig())
	adapter.baseURL = srv.URL
	adapter.sections = []section{{url: srv.URL + "/list?section=test", category: "증시"}}

	articles, err := adapter.FetchAndParse(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2)

	first := articles[0]
	assert.True(t, strings.HasPrefix(first.ID, "naver_finance_"))
	assert.Equal(t, "삼성전자 영업이익 증가 발표", first.Title)
	assert.Equal(t, "naver_finance", first.Source)
	assert.Equal(t, "증시", first.Category)
	assert.Equal(t, 2026, first.PublishedAt.Year())

	// Detail body replaced the empty list summary and contributed codes
	assert.Contains(t, first.Content, "반도체 수요 회복")
	assert.Contains(t, first.Stocks, "005930")
}

func TestNaverAdapterSkipsShortTitlesAndNonNewsLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/news/read?article_id=1">짧은 제목</a>
			<a href="/notnews/page">관련 없는 링크지만 제목은 충분히 길다</a>
		</body></html>`)
	}))
	defer srv.Close()

	adapter := NewNaverAdapter(testConfig())
	adapter.baseURL = srv.URL
	adapter.sections = []section{{url: srv.URL + "/?s=1", category: "경제"}}

	articles, err := adapter.FetchAndParse(context.Background())
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestNaverAdapterDeterministicIDs(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/news/read") {
			fmt.Fprint(w, `<html><body><div class="articleBody">본문 내용이 충분히 길다고 가정한다.</div></body></html>`)
			return
		}
		fmt.Fprint(w, `<html><body><a href="/news/read?article_id=7">카카오 신규 서비스 출시 예정</a></body></html>`)
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	adapter := NewNaverAdapter(testConfig())
	adapter.baseURL = srv.URL
	adapter.sections = []section{{url: srv.URL + "/?s=1", category: "경제"}}

	first, err := adapter.FetchAndParse(context.Background())
	require.NoError(t, err)
	second, err := adapter.FetchAndParse(context.Background())
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestKRXAdapterFetchAndParse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/disclosure/disclosure.do", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<table class="board_list">
				<tr><th>회사</th><th>제목</th><th>제출인</th><th>일자</th></tr>
				<tr>
					<td>삼성전자(005930)</td>
					<td><a href="/disclosure/view?id=1">주요사항보고서 제출</a></td>
					<td>삼성전자</td>
					<td>2026-01-14</td>
				</tr>
			</table>
		</body></html>`)
	})
	mux.HandleFunc("/disclosure/view", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div class="board_view">유상증자 결정에 관한 공시 내용</div></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	adapter := NewKRXAdapter(testConfig())
	adapter.baseURL = srv.URL

	articles, err := adapter.FetchAndParse(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 1)

	disclosure := articles[0]
	assert.True(t, strings.HasPrefix(disclosure.Title, "[공시] "))
	assert.Equal(t, "krx_disclosure", disclosure.Source)
	assert.Equal(t, "공시", disclosure.Category)
	assert.Equal(t, []string{"005930"}, disclosure.Stocks)
	assert.Contains(t, disclosure.Content, "유상증자")
}

func TestKRXAdapterMissingTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>점검 중입니다</p></body></html>`)
	}))
	defer srv.Close()

	adapter := NewKRXAdapter(testConfig())
	adapter.baseURL = srv.URL

	_, err := adapter.FetchAndParse(context.Background())
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestNewAdaptersFiltersBySourceList(t *testing.T) {
	cfg := testConfig()

	all := NewAdapters(cfg)
	assert.Len(t, all, 4)

	cfg.Collector.Sources = []string{"naver_finance", "krx_disclosure"}
	filtered := NewAdapters(cfg)
	require.Len(t, filtered, 2)
	assert.Equal(t, "naver_finance", filtered[0].Name())
	assert.Equal(t, "krx_disclosure", filtered[1].Name())
}
