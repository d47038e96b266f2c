package services

import "strings"

// normalizeUsername trims surrounding whitespace and lower-cases the username.
// Usernames are compared and stored in this form everywhere.
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// parseLeadingInt parses the leading decimal digits of an attendance value,
// so "85" and "85%" both read as 85. Anything else counts as 0.
func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	n := 0
	seen := false
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		seen = true
	}
	if !seen {
		return 0
	}
	return n
}
