package listing

import (
	"log/slog"
	"strings"
)

// Scanner walks the lines of a listing page and extracts one RawStory per
// recognized story entry, tracking the current issue as it goes.
type Scanner struct {
	logger *slog.Logger

	// Skipped is the number of lines that were neither blank, an issue
	// header, nor a parsable story entry in the most recent Scan.
	Skipped int
}

func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// Scan processes lines in order and returns the extracted stories. A story
// line inherits the month and year of the most recently seen issue header;
// stories before the first header get empty strings. Unparsable lines are
// logged with their 1-based line number and skipped; Scan never fails.
func (s *Scanner) Scan(lines []string) []RawStory {
	s.Skipped = 0
	current := Issue{}

	var stories []RawStory
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if IsIssueHeader(line) {
			words := strings.Fields(line)
			current = Issue{Month: words[0], Year: words[1]}
			continue
		}

		title, author, ok := ParseStoryLine(line)
		if !ok {
			s.Skipped++
			s.logger.Warn("could not match line, does not appear to be Title (Author)",
				"line", i+1, "text", line)
			continue
		}

		stories = append(stories, RawStory{
			Year:        current.Year,
			Month:       current.Month,
			Title:       title,
			PublishedAs: author,
		})
	}

	return stories
}
