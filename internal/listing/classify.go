package listing

import (
	"regexp"
	"strings"
)

var months = map[string]struct{}{
	"January": {}, "February": {}, "March": {}, "April": {},
	"May": {}, "June": {}, "July": {}, "August": {},
	"September": {}, "October": {}, "November": {}, "December": {},
}

var yearRe = regexp.MustCompile(`^\d\d\d\d`)

// IsIssueHeader reports whether a line names a magazine issue: exactly two
// whitespace-separated tokens, the first an English month name (case
// sensitive) and the second starting with four digits.
func IsIssueHeader(line string) bool {
	words := strings.Fields(strings.TrimSpace(line))
	if len(words) != 2 {
		return false
	}
	if _, ok := months[words[0]]; !ok {
		return false
	}
	return yearRe.MatchString(words[1])
}
