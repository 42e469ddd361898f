package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanTracksCurrentIssue(t *testing.T) {
	lines := []string{
		"July 1939",
		"Black Destroyer (A. E. van Vogt)",
		"Trends (Isaac Asimov)",
		"August 1939",
		"Life-Line (Robert Heinlein)",
	}

	stories := NewScanner(nil).Scan(lines)
	require.Len(t, stories, 3)

	assert.Equal(t, RawStory{Year: "1939", Month: "July", Title: "Black Destroyer", PublishedAs: "A. E. van Vogt"}, stories[0])
	assert.Equal(t, RawStory{Year: "1939", Month: "July", Title: "Trends", PublishedAs: "Isaac Asimov"}, stories[1])
	assert.Equal(t, RawStory{Year: "1939", Month: "August", Title: "Life-Line", PublishedAs: "Robert Heinlein"}, stories[2])
}

func TestScanBeforeFirstHeader(t *testing.T) {
	stories := NewScanner(nil).Scan([]string{"Orphan Story (Nobody Knows)"})
	require.Len(t, stories, 1)
	assert.Empty(t, stories[0].Year)
	assert.Empty(t, stories[0].Month)
	assert.Equal(t, "Orphan Story", stories[0].Title)
}

func TestScanSkipsBlankAndUnparsableLines(t *testing.T) {
	lines := []string{
		"July 1939",
		"",
		"   ",
		"Some page navigation text",
		"Black Destroyer (A. E. van Vogt)",
		"another stray line without an author",
		"Trends (Isaac Asimov)",
	}

	s := NewScanner(nil)
	stories := s.Scan(lines)

	require.Len(t, stories, 2)
	assert.Equal(t, "Black Destroyer", stories[0].Title)
	assert.Equal(t, "Trends", stories[1].Title)
	assert.Equal(t, 2, s.Skipped)
}

func TestScanEmptyInput(t *testing.T) {
	s := NewScanner(nil)
	assert.Empty(t, s.Scan(nil))
	assert.Zero(t, s.Skipped)
}

func TestScanHeaderReplacesHeader(t *testing.T) {
	lines := []string{
		"July 1939",
		"August 1939",
		"Life-Line (Robert Heinlein)",
	}
	stories := NewScanner(nil).Scan(lines)
	require.Len(t, stories, 1)
	assert.Equal(t, "August", stories[0].Month)
}
