package common

import (
	"time"
)

// MarketCalendar answers cadence questions against the market's local clock.
// KRX trades Mon-Fri 09:00-15:30; polling frequency follows that window.
type MarketCalendar struct {
	location    *time.Location
	marketOpen  time.Duration // offset from midnight
	marketClose time.Duration
	market      time.Duration // poll interval during trading hours
	afterHours  time.Duration // poll interval weekday 15:30-24:00
	offHours    time.Duration // poll interval weekend or 00:00-09:00
}

// NewMarketCalendar builds a calendar from scheduler configuration
func NewMarketCalendar(cfg *SchedulerConfig) *MarketCalendar {
	return &MarketCalendar{
		location:    cfg.Location(),
		marketOpen:  9 * time.Hour,
		marketClose: 15*time.Hour + 30*time.Minute,
		market:      cfg.GetMarketInterval(),
		afterHours:  cfg.GetAfterHoursInterval(),
		offHours:    cfg.GetOffHoursInterval(),
	}
}

// IsMarketOpen reports whether t falls inside trading hours (Mon-Fri
// 09:00-15:30 market local time)
func (c *MarketCalendar) IsMarketOpen(t time.Time) bool {
	local := t.In(c.location)
	if local.Weekday() == time.Saturday || local.Weekday() == time.Sunday {
		return false
	}
	since := sinceMidnight(local)
	return since >= c.marketOpen && since <= c.marketClose
}

// CollectionInterval returns the polling interval applicable at t:
// trading hours -> market interval, weekday after close -> after-hours
// interval, weekend or before open -> off-hours interval.
func (c *MarketCalendar) CollectionInterval(t time.Time) time.Duration {
	local := t.In(c.location)

	if local.Weekday() == time.Saturday || local.Weekday() == time.Sunday {
		return c.offHours
	}

	since := sinceMidnight(local)
	switch {
	case since < c.marketOpen:
		return c.offHours
	case since <= c.marketClose:
		return c.market
	default:
		return c.afterHours
	}
}

// Location returns the market's local timezone
func (c *MarketCalendar) Location() *time.Location {
	return c.location
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}
