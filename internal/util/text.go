package util

import (
	"regexp"
	"strconv"
	"strings"
)

// Go's \w and \s match ASCII only; the unicode categories are spelled
// out so nbsp padding and accented item names survive cleaning.
var (
	reNonFileChars = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}-]`)
	reSpaces       = regexp.MustCompile(`[\s\p{Z}]+`)
	reDigitRun     = regexp.MustCompile(`\d+`)
)

func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// CleanFilename derives a filesystem-safe stem from an item name: drop
// anything outside word chars, whitespace and hyphens, then turn whitespace
// runs into single underscores. "Ingot, Iron" becomes "Ingot_Iron".
func CleanFilename(name string) string {
	s := reNonFileChars.ReplaceAllString(name, "")
	s = reSpaces.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// FirstDigits returns the first unsigned integer run in text.
func FirstDigits(text string) (int, bool) {
	m := reDigitRun.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
