package domain

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"
)

const (
	MinNameLength     = 2
	MinPasswordLength = 6
	MobileLength      = 10
)

// Email segments exclude Unicode separators and the BOM as well as ASCII
// whitespace.
var (
	emailPattern  = regexp.MustCompile(`^[^\s\p{Z}\x{FEFF}@]+@[^\s\p{Z}\x{FEFF}@]+\.[^\s\p{Z}\x{FEFF}@]+$`)
	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// ValidEmail accepts the coarse local@domain.tld shape. Deliverability is not checked.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func ValidMobile(s string) bool {
	return mobilePattern.MatchString(s)
}

func ValidPassword(s string) bool {
	return s != "" && textLength(s) >= MinPasswordLength
}

func ValidName(s string) bool {
	return s != "" && textLength(strings.TrimFunc(s, isBlank)) >= MinNameLength
}

// textLength counts UTF-16 code units, so a rune outside the BMP counts twice.
func textLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func isBlank(r rune) bool {
	return r == '\uFEFF' || (unicode.IsSpace(r) && r != '\u0085')
}
