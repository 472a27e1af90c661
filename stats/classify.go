// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import "strings"

// Classify maps a kit number to its entry number.
// ok is false when the kit number is blank, not made of ASCII digits,
// or falls outside every entry range.
func Classify(kitNumber string) (entry int, ok bool) {
	digits := strings.TrimSpace(kitNumber)
	if digits == "" || !isDigits(digits) {
		return 0, false
	}

	switch len(digits) {
	case 1:
		value := int(digits[0] - '0')
		if value >= 1 && value <= 9 {
			return 1, true
		}
		return 0, false

	case 2:
		value := twoDigitPrefix(digits)
		if value >= 10 && value <= 80 {
			return 1, true
		}
		return 0, false

	case 3:
		// 86x and 87x must be checked before the "starts with 8" rule
		switch digits[:2] {
		case "86":
			return 22, true
		case "87":
			return 23, true
		}

		switch digits[0] {
		case '1':
			return 2, true
		case '2':
			return 3, true
		case '3':
			return 4, true
		case '4':
			return 5, true
		case '5', '6':
			return 6, true
		case '7':
			return 7, true
		case '8':
			return 8, true
		case '9':
			return 9, true
		}
		return 0, false

	case 4, 5:
		prefix := twoDigitPrefix(digits)
		if prefix >= 10 && prefix <= 56 {
			return prefix, true
		}
		return 0, false
	}

	return 0, false
}

// isDigits reports whether s is non-empty and contains only 0-9
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// twoDigitPrefix returns the integer value of the first two digits.
// Caller guarantees len(s) >= 2 and s is all digits.
func twoDigitPrefix(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}
