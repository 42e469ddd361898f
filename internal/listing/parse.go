package listing

import (
	"regexp"
	"strings"
)

// storyRe matches "Title (Author)": everything up to a final non-nested
// parenthetical group, anchored at end of line.
var storyRe = regexp.MustCompile(`^(.*)\(([^()]*)\)$`)

// ParseStoryLine extracts the title and published-as author from a story
// entry. ok is false when the line does not end in a parenthetical author;
// that is a recoverable condition the caller logs and skips.
func ParseStoryLine(line string) (title, author string, ok bool) {
	m := storyRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}
