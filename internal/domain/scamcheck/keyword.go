package scamcheck

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var separatorReplacer = strings.NewReplacer(" ", "", "-", "", ".", "")

// NormalizeKeyword canonicalizes a lookup keyword before it reaches cache
// keys and sources. Phone-shaped input loses its separators so that
// "0949 654 358" and "0949.654.358" hit the same cache entry; free text is
// folded and lowercased so that "Nguyễn Văn A" and "nguyen van a" do too.
func NormalizeKeyword(keyword string) string {
	kw := strings.TrimSpace(keyword)
	if compact := separatorReplacer.Replace(kw); isDigitsOrPlus(compact) {
		return compact
	}
	return strings.ToLower(FoldDiacritics(kw))
}

// FoldDiacritics strips Vietnamese diacritics for name lookups against
// sources that index folded text ("Nguyễn Văn A" -> "Nguyen Van A").
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	// Đ decomposes to nothing removable, handle it directly.
	folded = strings.ReplaceAll(folded, "đ", "d")
	folded = strings.ReplaceAll(folded, "Đ", "D")
	return folded
}

func isDigitsOrPlus(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '+' && i == 0 {
			continue
		}
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
