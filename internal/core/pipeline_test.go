package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bwatkins/story-index/internal/authors"
	"github.com/bwatkins/story-index/internal/listing"
)

func TestAssembleStories(t *testing.T) {
	raw := []listing.RawStory{
		{Year: "1939", Month: "July", Title: "Black Destroyer", PublishedAs: "A. E. van Vogt"},
		{Year: "1939", Month: "July", Title: "Trends", PublishedAs: "Isaac Asimov"},
		{Year: "1939", Month: "August", Title: "Life-Line", PublishedAs: "Robert Heinlein"},
	}
	norm := authors.NewNormalizer(nil, authors.AliasTable{
		{Canonical: "Heinlein, Robert A.", Aliases: []string{"Anson MacDonald", "Heinlein"}},
	})

	stories := assembleStories(raw, norm)
	require.Len(t, stories, 3)

	third := stories[2]
	assert.Equal(t, 2, third.Position)
	assert.Equal(t, "1939", third.Year)
	assert.Equal(t, "August", third.Month)
	assert.Equal(t, "Life-Line", third.Title)
	// The canonical identity resolves through the pen name table while the
	// byline keeps what was printed.
	assert.Equal(t, "Heinlein, Robert A.", third.Author)
	assert.Equal(t, "Heinlein, Robert", third.PublishedAs)

	// Untabled authors just get reordered.
	assert.Equal(t, "van Vogt, A. E.", stories[0].Author)
	assert.Equal(t, "Asimov, Isaac", stories[1].Author)
}

func TestPipelineRunEndToEnd(t *testing.T) {
	const page = `<html><head><title>Contents</title></head><body>
July 1939<br>
Black Destroyer (A. E. van Vogt)<br>
Trends (Isaac Asimov)<br>
stray navigation line<br>
August 1939<br>
Life-Line (Robert Heinlein)<br>
</body></html>`

	const spellings = "Name,Aliases\n"
	const pennames = "Name,Aliases\n\"Heinlein, Robert A.\",\"Anson MacDonald|Heinlein\"\n"

	mux := http.NewServeMux()
	mux.HandleFunc("/listing.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	})
	mux.HandleFunc("/spellings.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(spellings))
	})
	mux.HandleFunc("/pennames.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pennames))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	pipeline := NewPipeline(Sources{
		ListingURL:   srv.URL + "/listing.html",
		SpellingsURL: srv.URL + "/spellings.csv",
		PenNamesURL:  srv.URL + "/pennames.csv",
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stories, err := pipeline.Run(ctx)
	require.NoError(t, err)
	require.Len(t, stories, 3)

	assert.Equal(t, "Black Destroyer", stories[0].Title)
	assert.Equal(t, "July", stories[0].Month)
	assert.Equal(t, "Trends", stories[1].Title)

	third := stories[2]
	assert.Equal(t, "August", third.Month)
	assert.Equal(t, "1939", third.Year)
	assert.Equal(t, "Life-Line", third.Title)
	assert.Equal(t, "Heinlein, Robert A.", third.Author)
	assert.Equal(t, "Heinlein, Robert", third.PublishedAs)
}
