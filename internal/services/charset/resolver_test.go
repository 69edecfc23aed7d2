package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// "삼성전자 주가 상승" encoded as EUC-KR
var eucKRSample = []byte{
	0xBB, 0xEF, 0xBC, 0xBA, 0xC0, 0xFC, 0xC0, 0xDA, 0x20,
	0xC1, 0xD6, 0xB0, 0xA1, 0x20, 0xBB, 0xF3, 0xBD, 0xC2,
}

const eucKRSampleText = "삼성전자 주가 상승"

func TestDecodeUTF8(t *testing.T) {
	r := NewResolver()

	text, enc, err := r.Decode([]byte("코스피 지수 반등"), "")
	require.NoError(t, err)
	assert.Equal(t, "코스피 지수 반등", text)
	assert.Equal(t, "utf-8", enc)
}

func TestDecodeEUCKR(t *testing.T) {
	r := NewResolver()

	text, enc, err := r.Decode(eucKRSample, "")
	require.NoError(t, err)
	assert.Equal(t, eucKRSampleText, text)
	assert.Equal(t, "euc-kr", enc)
}

func TestDecodeHonorsHintFirst(t *testing.T) {
	r := NewResolver()

	// CP949 aliases resolve to the EUC-KR decoder
	for _, hint := range []string{"euc-kr", "EUC-KR", "cp949", "ks_c_5601-1987"} {
		text, enc, err := r.Decode(eucKRSample, hint)
		require.NoError(t, err, "hint %s", hint)
		assert.Equal(t, eucKRSampleText, text)
		assert.Equal(t, "euc-kr", enc)
	}
}

func TestDecodeIgnoresWrongHint(t *testing.T) {
	r := NewResolver()

	// Source declares utf-8 but serves EUC-KR bytes; the declared charset
	// must not be trusted blindly.
	text, enc, err := r.Decode(eucKRSample, "utf-8")
	require.NoError(t, err)
	assert.Equal(t, eucKRSampleText, text)
	assert.Equal(t, "euc-kr", enc)
}

func TestDecodeRejectsNonKoreanText(t *testing.T) {
	r := NewResolver()

	// Pure ASCII decodes under every candidate but contains no Hangul,
	// so no candidate passes the two-part acceptance test.
	_, _, err := r.Decode([]byte("hello world, no korean here"), "")
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestDecodeEmptyInput(t *testing.T) {
	r := NewResolver()

	text, enc, err := r.Decode(nil, "")
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Equal(t, "utf-8", enc)
}

func TestDecodeRoundTripsCandidates(t *testing.T) {
	r := NewResolver()

	// Any Korean text correctly encoded in a candidate charset must be
	// recovered exactly.
	samples := []string{
		"실적 호조에 목표가 상향",
		"영업이익 급감 우려",
		"공시: 대규모 공급계약 체결",
	}
	for _, s := range samples {
		text, enc, err := r.Decode([]byte(s), "")
		require.NoError(t, err)
		assert.Equal(t, s, text)
		assert.Equal(t, "utf-8", enc)
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "깨진 텍스트", CleanText("깨진� 텍스트�"))
	assert.Equal(t, "a b", CleanText("a\u00a0b"))
	assert.Equal(t, "", CleanText("  � "))
	assert.Equal(t, "", CleanText(""))
}
