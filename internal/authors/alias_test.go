package authors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveNoMatchPassesThrough(t *testing.T) {
	table := AliasTable{
		{Canonical: "Heinlein, Robert A.", Aliases: []string{"Anson MacDonald", "Heinlien"}},
	}
	assert.Equal(t, "Asimov, Isaac", Resolve("Asimov, Isaac", table))
	assert.Equal(t, "anything", Resolve("anything", nil))
}

func TestResolveCaseInsensitiveSubstring(t *testing.T) {
	table := AliasTable{
		{Canonical: "Heinlein, Robert A.", Aliases: []string{"heinlein"}},
	}
	assert.Equal(t, "Heinlein, Robert A.", Resolve("HEINLEIN, ROBERT", table))
	assert.Equal(t, "Heinlein, Robert A.", Resolve("Heinlein, Robert", table))
}

func TestResolveFirstEntryWinsOnOverlap(t *testing.T) {
	// Both entries carry an alias matching the input; table order breaks
	// the tie.
	table := AliasTable{
		{Canonical: "First, Wins", Aliases: []string{"smith"}},
		{Canonical: "Second, Loses", Aliases: []string{"Smith, George"}},
	}
	got := Resolve("Smith, George O.", table)
	assert.Equal(t, "First, Wins", got)

	// Deterministic across repeated calls.
	for i := 0; i < 10; i++ {
		assert.Equal(t, got, Resolve("Smith, George O.", table))
	}
}

func TestResolveSkipsEmptyAliases(t *testing.T) {
	table := AliasTable{
		{Canonical: "Nobody", Aliases: []string{""}},
	}
	assert.Equal(t, "Asimov, Isaac", Resolve("Asimov, Isaac", table))
}

func TestNormalizerPipeline(t *testing.T) {
	spellings := AliasTable{
		{Canonical: "van Vogt, A. E.", Aliases: []string{"Van Vogt", "van Voght"}},
	}
	penNames := AliasTable{
		{Canonical: "Heinlein, Robert A.", Aliases: []string{"MacDonald", "Heinlein"}},
	}
	n := NewNormalizer(spellings, penNames)

	// Pen name resolves to the real author, but only in Normalize.
	assert.Equal(t, "Heinlein, Robert A.", n.Normalize("Anson MacDonald"))
	assert.Equal(t, "MacDonald, Anson", n.SpellOnly("Anson MacDonald"))

	// Spelling variant folds in both.
	assert.Equal(t, "van Vogt, A. E.", n.SpellOnly("A.E. van Voght"))
	assert.Equal(t, "van Vogt, A. E.", n.Normalize("A.E. van Voght"))

	// Unknown names just get reordered.
	assert.Equal(t, "Jones, Raymond F.", n.Normalize("Raymond F. Jones"))
}
