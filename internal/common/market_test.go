package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalendar(t *testing.T) *MarketCalendar {
	t.Helper()
	cfg := NewDefaultConfig()
	return NewMarketCalendar(&cfg.Scheduler)
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	parsed, err := time.ParseInLocation("2006-01-02 15:04:05", value, loc)
	require.NoError(t, err)
	return parsed
}

func TestCollectionInterval(t *testing.T) {
	cal := newTestCalendar(t)

	tests := []struct {
		name string
		at   string
		want time.Duration
	}{
		{"monday market open", "2026-01-05 09:00:00", time.Minute},
		{"wednesday mid session", "2026-01-07 11:30:00", time.Minute},
		{"friday at close", "2026-01-09 15:30:00", time.Minute},
		{"friday just after close", "2026-01-09 15:30:01", 5 * time.Minute},
		{"weekday evening", "2026-01-06 22:15:00", 5 * time.Minute},
		{"weekday before open", "2026-01-06 08:59:59", 30 * time.Minute},
		{"weekday early morning", "2026-01-06 03:00:00", 30 * time.Minute},
		{"saturday midday", "2026-01-10 12:00:00", 30 * time.Minute},
		{"sunday evening", "2026-01-11 20:00:00", 30 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.CollectionInterval(mustTime(t, tt.at)))
		})
	}
}

func TestIsMarketOpen(t *testing.T) {
	cal := newTestCalendar(t)

	assert.True(t, cal.IsMarketOpen(mustTime(t, "2026-01-05 09:00:00")))
	assert.True(t, cal.IsMarketOpen(mustTime(t, "2026-01-07 15:30:00")))
	assert.False(t, cal.IsMarketOpen(mustTime(t, "2026-01-07 15:30:01")))
	assert.False(t, cal.IsMarketOpen(mustTime(t, "2026-01-07 08:59:00")))
	assert.False(t, cal.IsMarketOpen(mustTime(t, "2026-01-10 11:00:00"))) // Saturday
}

func TestCollectionIntervalConvertsForeignZone(t *testing.T) {
	cal := newTestCalendar(t)

	// 01:00 UTC Monday is 10:00 KST Monday - trading hours
	utc := time.Date(2026, 1, 5, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Minute, cal.CollectionInterval(utc))
}

func TestNewArticleIDDeterministic(t *testing.T) {
	a := NewArticleID("naver_finance", "https://finance.naver.com/news/1", "삼성전자 실적 발표")
	b := NewArticleID("naver_finance", "https://finance.naver.com/news/1", "삼성전자 실적 발표")
	c := NewArticleID("naver_finance", "https://finance.naver.com/news/2", "삼성전자 실적 발표")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "naver_finance_")
	assert.Len(t, a, len("naver_finance_")+16)
}
