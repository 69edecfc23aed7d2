package sources

import (
	"regexp"
	"sort"
	"strings"
)

// stockCodePattern matches a standalone 6-digit KRX ticker
var stockCodePattern = regexp.MustCompile(`\b\d{6}\b`)

// stockNameCodes maps well-known company names to their tickers so
// articles that never print the numeric code still get related stocks.
var stockNameCodes = map[string]string{
	"삼성전자":     "005930",
	"SK하이닉스":   "000660",
	"현대차":      "005380",
	"기아":       "000270",
	"LG에너지솔루션": "373220",
	"NAVER":    "035420",
	"네이버":      "035420",
	"카카오":      "035720",
	"셀트리온":     "068270",
	"POSCO홀딩스": "005490",
	"KB금융":     "105560",
}

// ExtractStockCodes pulls related stock codes out of free text, from
// both literal 6-digit tickers and known company names. The result is
// deduplicated and sorted so identical text always yields identical
// slices.
func ExtractStockCodes(text string) []string {
	if text == "" {
		return nil
	}

	seen := make(map[string]struct{})
	for _, code := range stockCodePattern.FindAllString(text, -1) {
		seen[code] = struct{}{}
	}
	for name, code := range stockNameCodes {
		if strings.Contains(text, name) {
			seen[code] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// mergeStockCodes unions two code slices, preserving sorted order
func mergeStockCodes(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, code := range a {
		seen[code] = struct{}{}
	}
	for _, code := range b {
		seen[code] = struct{}{}
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
