package listing

// Issue is the month/year context an issue-header line establishes. It stays
// in effect for every story line until the next header replaces it. Before
// the first header both fields are empty.
type Issue struct {
	Month string
	Year  string
}

// RawStory is one extracted story entry. Year and Month are copied from the
// issue in effect when the line was scanned; they are empty strings when the
// story appeared before any recognized header.
type RawStory struct {
	Year        string
	Month       string
	Title       string
	PublishedAs string
}
