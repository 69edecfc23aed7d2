// Package charset recovers correct Unicode text from raw response bytes.
//
// Korean news sites are inconsistently encoded: pages declare one charset
// and serve another, or serve EUC-KR bytes with no declaration at all. A
// strict-but-wrong single-byte decoding (Latin-1) succeeds byte-for-byte
// yet produces garbage, so a decode that merely "didn't error" proves
// nothing. The resolver therefore requires two things of a candidate:
// the bytes decode without loss AND the decoded prefix contains at least
// one character in the Hangul syllable range (U+AC00..U+D7A3).
package charset

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// ErrUnresolved is returned when no candidate encoding passes both the
// strict-decode and script-range checks.
var ErrUnresolved = errors.New("charset: no candidate encoding resolved")

// scanWindow is how many decoded runes are inspected for Hangul presence
const scanWindow = 1000

// candidate pairs an encoding name with its decoder. A nil decoder means
// the bytes are taken as UTF-8 directly.
type candidate struct {
	name    string
	decoder func() *encoding.Decoder
}

// Resolver tries an ordered list of candidate encodings. A declared
// charset hint from the source is tried first as an optimization only;
// it is never trusted blindly.
type Resolver struct {
	candidates []candidate
}

// NewResolver creates a resolver with the default candidate order:
// UTF-8, EUC-KR (x/text's implementation covers the CP949 extension),
// Latin-1 as last resort.
func NewResolver() *Resolver {
	return &Resolver{
		candidates: []candidate{
			{name: "utf-8", decoder: nil},
			{name: "euc-kr", decoder: korean.EUCKR.NewDecoder},
			{name: "latin-1", decoder: charmap.ISO8859_1.NewDecoder},
		},
	}
}

// Decode converts raw bytes to Unicode text, returning the text and the
// name of the encoding actually used. The hint, when non-empty, names the
// charset the source declared (e.g. from Content-Type) and moves that
// candidate to the front of the trial order.
func (r *Resolver) Decode(raw []byte, hint string) (string, string, error) {
	if len(raw) == 0 {
		return "", "utf-8", nil
	}

	for _, cand := range r.ordered(hint) {
		text, ok := decodeStrict(raw, cand)
		if !ok {
			continue
		}
		if !containsHangul(text, scanWindow) {
			continue
		}
		return text, cand.name, nil
	}

	return "", "", ErrUnresolved
}

// ordered returns the candidate list with the hinted encoding first
func (r *Resolver) ordered(hint string) []candidate {
	hint = normalizeName(hint)
	if hint == "" {
		return r.candidates
	}

	ordered := make([]candidate, 0, len(r.candidates))
	for _, c := range r.candidates {
		if c.name == hint {
			ordered = append(ordered, c)
		}
	}
	for _, c := range r.candidates {
		if c.name != hint {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// decodeStrict decodes raw with the candidate, rejecting any lossy result.
// x/text decoders substitute U+FFFD for undecodable input rather than
// failing, so a replacement character in the output (absent from a clean
// decode) marks the candidate as wrong.
func decodeStrict(raw []byte, cand candidate) (string, bool) {
	if cand.decoder == nil {
		if !utf8.Valid(raw) {
			return "", false
		}
		return string(raw), true
	}

	decoded, _, err := transform.Bytes(cand.decoder(), raw)
	if err != nil {
		return "", false
	}
	if strings.ContainsRune(string(decoded), utf8.RuneError) {
		return "", false
	}
	return string(decoded), true
}

// containsHangul reports whether any of the first window runes falls in
// the Hangul syllable block U+AC00..U+D7A3
func containsHangul(text string, window int) bool {
	seen := 0
	for _, r := range text {
		if r >= 0xAC00 && r <= 0xD7A3 {
			return true
		}
		seen++
		if seen >= window {
			break
		}
	}
	return false
}

// normalizeName maps common charset aliases onto candidate names
func normalizeName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return "utf-8"
	case "euc-kr", "euckr", "cp949", "ks_c_5601-1987", "windows-949":
		return "euc-kr"
	case "latin-1", "latin1", "iso-8859-1":
		return "latin-1"
	default:
		return ""
	}
}

// CleanText strips residual replacement characters and normalizes
// whitespace artifacts before text enters scoring. Partially-garbled
// text must not silently skew keyword matches.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, string(utf8.RuneError), "")
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return strings.TrimSpace(text)
}
