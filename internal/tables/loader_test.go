package tables

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bwatkins/story-index/internal/authors"
)

func TestParsePreservesRowOrder(t *testing.T) {
	csvData := `Name,Aliases
"Heinlein, Robert A.","MacDonald | Heinlein"
"van Vogt, A. E.",Van Vogt
"del Rey, Lester","del Rey|Philip St. John"
`

	table, err := Parse(strings.NewReader(csvData), nil)
	require.NoError(t, err)
	require.Len(t, table, 3)

	assert.Equal(t, "Heinlein, Robert A.", table[0].Canonical)
	assert.Equal(t, []string{"MacDonald", "Heinlein"}, table[0].Aliases)
	assert.Equal(t, "van Vogt, A. E.", table[1].Canonical)
	assert.Equal(t, []string{"Van Vogt"}, table[1].Aliases)
	assert.Equal(t, []string{"del Rey", "Philip St. John"}, table[2].Aliases)
}

func TestParseSkipsMalformedRows(t *testing.T) {
	csvData := `Name,Aliases
"Heinlein, Robert A.",Heinlein
missing-aliases-column
"",orphaned aliases
`

	table, err := Parse(strings.NewReader(csvData), nil)
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, "Heinlein, Robert A.", table[0].Canonical)
}

func TestParseEmptySheet(t *testing.T) {
	table, err := Parse(strings.NewReader("Name,Aliases\n"), nil)
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestParsedTableResolves(t *testing.T) {
	csvData := `Name,Aliases
"Heinlein, Robert A.","MacDonald|Heinlein"
`
	table, err := Parse(strings.NewReader(csvData), nil)
	require.NoError(t, err)

	assert.Equal(t, "Heinlein, Robert A.", authors.Resolve("Heinlein, Robert", table))
	assert.Equal(t, "Asimov, Isaac", authors.Resolve("Asimov, Isaac", table))
}
