// Package pdfname decodes and normalizes PDF Name atoms used as AcroForm
// button appearance-state keys.
//
// Template vendors have shipped the same German state label under at least
// three different byte encodings of the same PDF Name: UTF-8 (correct),
// Latin-1/PDFDocEncoding (common in older tools), and a broken intermediate
// form where a tool decoded Latin-1 bytes as if they were UTF-16, leaving low
// surrogates (U+DC00..U+DCFF) embedded in what should have been plain text.
// This package gives the rest of the engine one place to turn any of those
// forms into a value it can compare.
package pdfname

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/kilroy-fr/pdfforms/pdfstruct"
)

// mojibakeFixups covers the misdecodings of ä ö ü ß seen in existing
// templates. The CJK entries are what you get when a tool round-trips
// Latin-1 bytes through a CP936 code page by mistake.
var mojibakeFixups = []struct {
	broken, fixed string
}{
	{"Ã¤", "ä"}, {"Ã¶", "ö"}, {"Ã¼", "ü"}, {"ÃŸ", "ß"},
	{"鋍", "ä"}, {"鋘", "ä"}, {"鰐", "ö"}, {"黨", "ü"}, {"鰃", "ö"},
}

var foldCaser = cases.Fold()

// DecodeName turns a raw pdfstruct.Name (already #xx-unescaped by the
// low-level parser, but not otherwise interpreted) into Unicode text.
//
// It first repairs any embedded low surrogates by mapping each one back to
// the Latin-1 byte it stands for, then tries UTF-8, falling back to Latin-1
// if the bytes are not valid UTF-8.
func DecodeName(n pdfstruct.Name) string {
	return Decode(string(n))
}

// Decode is DecodeName without the pdfstruct dependency, for callers (tests,
// the session layer) that only have a plain string.
func Decode(raw string) string {
	repaired := repairSurrogates(raw)
	if isValidUTF8(repaired) {
		return repaired
	}
	return latin1Decode(repaired)
}

func repairSurrogates(s string) string {
	// A low surrogate U+DCxx arrives as the three bytes ED B0..B3 80..BF.
	hasSurrogate := false
	for i := 0; i+2 < len(s); i++ {
		if s[i] == 0xED && s[i+1]&0xFC == 0xB0 && s[i+2]&0xC0 == 0x80 {
			hasSurrogate = true
			break
		}
	}
	if !hasSurrogate {
		return s
	}
	by := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if i+2 < len(s) && s[i] == 0xED && s[i+1]&0xFC == 0xB0 && s[i+2]&0xC0 == 0x80 {
			by = append(by, (s[i+1]&0x03)<<6|(s[i+2]&0x3F))
			i += 2
		} else {
			by = append(by, s[i])
		}
	}
	return string(by)
}

func isValidUTF8(s string) bool {
	return utf8.ValidString(s)
}

// latin1Decode treats each byte of s as a Latin-1 (ISO-8859-1) code point,
// which is numerically identical to the corresponding Unicode code point.
func latin1Decode(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		sb.WriteRune(rune(s[i]))
	}
	return sb.String()
}

// EncodeName is the canonical write form: the caller passes already-decoded
// Unicode text, and gets back the pdfstruct.Name to store in the object
// graph. pdfstruct's writer (encodeName in update.go) performs the actual
// #xx escaping byte-by-byte at serialization time, so at this layer encoding
// is simply "store the UTF-8 text as a Name" — but the function exists so
// callers never embed the escaping assumption directly.
func EncodeName(s string) pdfstruct.Name {
	return pdfstruct.Name(s)
}

// NormalizeLabel decodes a raw Name, repairs known mojibake, collapses
// whitespace, and case-folds it for comparison.
func NormalizeLabel(n pdfstruct.Name) string {
	return NormalizeLabelText(string(n))
}

// NormalizeLabelText is NormalizeLabel for a value that isn't a
// pdfstruct.Name yet (e.g. a radio target label supplied by a caller).
func NormalizeLabelText(raw string) string {
	s := Decode(raw)
	for _, fix := range mojibakeFixups {
		s = strings.ReplaceAll(s, fix.broken, fix.fixed)
	}
	s = strings.Join(strings.Fields(s), " ")
	return foldCaser.String(s)
}

// CanonicalToken maps a normalized label to one of a fixed set of semantic
// tokens, or to its punctuation-stripped compact form if none apply. Two
// labels are "semantically equal" iff their canonical tokens are equal.
func CanonicalToken(normalized string) string {
	compact := compactForm(normalized)
	switch {
	case strings.Contains(compact, "keine angabe"):
		return "keine_angabe"
	case strings.Contains(compact, "personelle") && strings.Contains(compact, "hilfe"):
		return "personelle_hilfe"
	case strings.Contains(compact, "nicht") && strings.Contains(compact, "durchf"):
		return "nicht_durchfuehrbar"
	case strings.Contains(compact, "einschr"):
		return "einschraenkungen"
	case strings.Contains(compact, "keine") && (strings.Contains(compact, "beeintr") || strings.Contains(compact, "beein")):
		return "keine_beeintraechtigungen"
	case compact == "ja" || compact == "yes":
		return "yes"
	case compact == "nein" || compact == "no":
		return "no"
	default:
		return compact
	}
}

func compactForm(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ':
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Token is a convenience that chains NormalizeLabelText and CanonicalToken,
// the comparison the widget writer and repair pass actually perform.
func Token(raw string) string {
	return CanonicalToken(NormalizeLabelText(raw))
}

// TokenOfName is Token for a raw pdfstruct.Name.
func TokenOfName(n pdfstruct.Name) string {
	return Token(string(n))
}

// SameState reports whether two raw state labels (in any of the supported
// encodings) are semantically the same option.
func SameState(a, b string) bool {
	return Token(a) == Token(b)
}

// IsOff reports whether a raw On-state key is the button's Off state. This
// is a literal identifier check ("Off"), distinct from the semantic "nein"
// token that CanonicalToken produces for a negative answer.
func IsOff(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(Decode(raw)), "Off")
}
