package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractStockCodes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"literal code", "삼성전자(005930) 주가 상승", []string{"005930"}},
		{"name only", "SK하이닉스 실적 발표 임박", []string{"000660"}},
		{"name and code deduplicate", "삼성전자 005930 공시", []string{"005930"}},
		{"multiple sorted", "현대차 005380와 기아 000270 동반 상승", []string{"000270", "005380"}},
		{"no stocks", "코스피 지수 보합세", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractStockCodes(tt.text))
		})
	}
}

func TestExtractStockCodesDeterministic(t *testing.T) {
	text := "삼성전자 000660 035420 카카오 005380"
	first := ExtractStockCodes(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ExtractStockCodes(text))
	}
}

func TestMergeStockCodes(t *testing.T) {
	assert.Equal(t, []string{"000660", "005930"},
		mergeStockCodes([]string{"005930"}, []string{"000660", "005930"}))
	assert.Equal(t, []string{"005930"}, mergeStockCodes([]string{"005930"}, nil))
	assert.Equal(t, []string{"005930"}, mergeStockCodes(nil, []string{"005930"}))
}
