package sources

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/newsflow/internal/common"
	"github.com/ternarybob/newsflow/internal/services/charset"
)

// maxBodyBytes caps how much of a response is read
const maxBodyBytes = 10 << 20

// Fetcher issues polite HTTP requests for one source: a shared client,
// a consistent User-Agent, and a rate limiter enforcing the configured
// minimum delay between requests. Response bytes go through charset
// resolution before parsing, since the declared encoding cannot be
// trusted on Korean news sites.
type Fetcher struct {
	source   string
	client   *http.Client
	limiter  *rate.Limiter
	resolver *charset.Resolver
	ua       string
	logger   arbor.ILogger
}

// NewFetcher creates a fetcher for the named source. Each source gets
// its own limiter so one slow site does not starve the others.
func NewFetcher(source string, cfg *common.CollectorConfig) *Fetcher {
	delay := cfg.GetRequestDelay()
	if delay <= 0 {
		delay = time.Second
	}
	return &Fetcher{
		source:   source,
		client:   &http.Client{Timeout: cfg.GetRequestTimeout()},
		limiter:  rate.NewLimiter(rate.Every(delay), 1),
		resolver: charset.NewResolver(),
		ua:       cfg.UserAgent,
		logger:   common.GetLogger(),
	}
}

// FetchDocument fetches the URL and returns the parsed HTML document.
// The Content-Type charset parameter, when present, is passed to the
// resolver as an untrusted hint.
func (f *Fetcher) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Source: f.source, URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Source: f.source, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.ua)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: f.source, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &FetchError{Source: f.source, URL: url, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Source: f.source, URL: url, Err: err}
	}

	text, encName, err := f.resolver.Decode(raw, charsetHint(resp.Header.Get("Content-Type")))
	if err != nil {
		f.logger.Warn().Str("source", f.source).Str("url", url).Msg("charset resolution failed")
		return nil, err
	}
	if encName != "utf-8" {
		f.logger.Debug().Str("source", f.source).Str("encoding", encName).Msg("transcoded response body")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, &ParseError{Source: f.source, URL: url, Reason: err.Error()}
	}
	return doc, nil
}

// charsetHint extracts the charset parameter from a Content-Type value
func charsetHint(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}

// nodeText extracts trimmed text from a selection, with encoding
// artifacts stripped
func nodeText(sel *goquery.Selection) string {
	return charset.CleanText(sel.Text())
}
