package strutil

import (
	"regexp"
	"strings"
)

// slugPattern is the URL-friendly natural-key format: lowercase letters,
// digits and single hyphens, never leading or trailing.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// IsValidSlug reports whether s matches the slug format.
func IsValidSlug(s string) bool {
	return s != "" && len(s) <= 120 && slugPattern.MatchString(s)
}

// Slugify derives a slug from a human-readable name. Characters outside
// [a-z0-9] collapse into single hyphens.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonSlugChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 120 {
		s = strings.Trim(s[:120], "-")
	}
	return s
}

// CountWords approximates a word count for reading-time estimates. CJK
// characters count one word each, other runs of non-space characters count
// one word per run.
func CountWords(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		switch {
		case r >= 0x4E00 && r <= 0x9FFF:
			count++
			inWord = false
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			inWord = false
		default:
			if !inWord {
				count++
				inWord = true
			}
		}
	}
	return count
}
