// Package strings holds the text rules shared by field validators.
//
// Lengths are counted in runes, not bytes, so "안녕" is two characters.
package strings

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Len returns the number of characters in s.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// TrimSpaces trims horizontal whitespace only. Line breaks are kept, so a
// name of "\n" is not blank under this rule.
func TrimSpaces(s string) string {
	return strings.TrimFunc(s, isHorizontalSpace)
}

// TrimAll trims whitespace including line breaks.
func TrimAll(s string) string {
	return strings.TrimSpace(s)
}

// IsBlank reports whether s is empty after TrimSpaces.
func IsBlank(s string) bool {
	return TrimSpaces(s) == ""
}

// ContainsLetterAndDigit reports whether s has at least one ASCII letter
// and at least one ASCII digit.
func ContainsLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		}
		if letter && digit {
			return true
		}
	}
	return false
}

func isHorizontalSpace(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x85, 0x2028, 0x2029:
		return false
	}
	return unicode.IsSpace(r)
}
