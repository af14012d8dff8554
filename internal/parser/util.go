package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// normalizeLine cleans up common PDF extraction artifacts.
func normalizeLine(line string) string {
	line = strings.ReplaceAll(line, "\u200B", "")
	line = strings.ReplaceAll(line, "\u00A0", " ")
	return strings.TrimSpace(line)
}

// ParseAmount converts a currency string like "1,234.56", "₹4,000.00" or
// "326.00 D" to a float64. Thousands separators, surrounding whitespace and
// rupee symbols are stripped; only the first whitespace-delimited token is
// considered. The caller decides the fallback (usually 0) on error.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "₹", "") // rupee sign
	s = strings.ReplaceAll(s, "Rs.", "")
	s = strings.ReplaceAll(s, ",", "")

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(fields[0], 64)
}

// ParseIntSafe converts a possibly comma-grouped integer token to *int.
// Returns nil (never an error) for anything non-numeric, including the
// "NONE" sentinel some statements print for an absent balance; call sites
// that want NONE to mean zero handle that token themselves.
func ParseIntSafe(s string) *int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// isNoneToken reports whether s is the literal "NONE" sentinel, any case.
func isNoneToken(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "NONE")
}

// firstIntPattern finds the first integer in a line, comma groups allowed.
var firstIntPattern = regexp.MustCompile(`(\d[\d,]*)`)

// firstInt returns the first integer found in a line, or nil.
func firstInt(line string) *int {
	m := firstIntPattern.FindString(line)
	if m == "" {
		return nil
	}
	return ParseIntSafe(m)
}

// isDigitToken reports whether s consists entirely of ASCII digits.
func isDigitToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isAllCaps reports whether s contains at least one letter and every letter
// is uppercase.
func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// isTitleCase reports whether every word starts with an uppercase letter
// followed only by lowercase letters, e.g. "John Doe".
func isTitleCase(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		runes := []rune(w)
		if !unicode.IsUpper(runes[0]) {
			return false
		}
		for _, r := range runes[1:] {
			if unicode.IsLetter(r) && !unicode.IsLower(r) {
				return false
			}
		}
	}
	return true
}
