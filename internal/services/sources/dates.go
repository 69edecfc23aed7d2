package sources

import (
	"regexp"
	"strconv"
	"time"
)

// Publication timestamps appear in several shapes across the sources:
// ISO 8601 from <time datetime>, dotted dates from list pages, and
// month-day-only stamps that imply the current year. Unparseable input
// falls back to the collection time so timeliness scoring still works.

var (
	isoDatePattern      = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})[T ](\d{2}):(\d{2})(?::(\d{2}))?`)
	dottedDateTime      = regexp.MustCompile(`(\d{4})\.(\d{2})\.(\d{2})\s+(\d{2}):(\d{2})`)
	dottedDateOnly      = regexp.MustCompile(`(\d{4})[.-](\d{2})[.-](\d{2})`)
	monthDayTimePattern = regexp.MustCompile(`\b(\d{2})[.-](\d{2})\s+(\d{2}):(\d{2})`)
)

// parsePublishedAt interprets a scraped date string in the given
// location, falling back to now when nothing matches
func parsePublishedAt(raw string, now time.Time, loc *time.Location) time.Time {
	if raw == "" {
		return now
	}

	if m := isoDatePattern.FindStringSubmatch(raw); m != nil {
		sec := 0
		if m[6] != "" {
			sec = atoi(m[6])
		}
		return time.Date(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]), atoi(m[4]), atoi(m[5]), sec, 0, loc)
	}
	if m := dottedDateTime.FindStringSubmatch(raw); m != nil {
		return time.Date(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]), atoi(m[4]), atoi(m[5]), 0, 0, loc)
	}
	if m := dottedDateOnly.FindStringSubmatch(raw); m != nil {
		return time.Date(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]), 0, 0, 0, 0, loc)
	}
	if m := monthDayTimePattern.FindStringSubmatch(raw); m != nil {
		return time.Date(now.In(loc).Year(), time.Month(atoi(m[1])), atoi(m[2]), atoi(m[3]), atoi(m[4]), 0, 0, loc)
	}

	return now
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
