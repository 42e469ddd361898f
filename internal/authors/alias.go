package authors

import "strings"

// AliasEntry maps one canonical name to the alternate strings (misspellings
// or pen names) that should resolve to it.
type AliasEntry struct {
	Canonical string
	Aliases   []string
}

// AliasTable is an ordered list of alias entries. Order matters: when aliases
// from different entries both match a name, the earliest entry wins, so the
// table is a slice rather than a map.
type AliasTable []AliasEntry

// Resolve returns the canonical name of the first entry containing an alias
// that is a case-insensitive substring of name. If no alias matches, name is
// returned unchanged.
func Resolve(name string, table AliasTable) string {
	lower := strings.ToLower(name)
	for _, entry := range table {
		for _, alias := range entry.Aliases {
			if alias == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(alias)) {
				return entry.Canonical
			}
		}
	}
	return name
}

// Normalizer reconciles author identities using two alias tables: one for
// spelling variants and one for pen names.
type Normalizer struct {
	Spellings AliasTable
	PenNames  AliasTable
}

func NewNormalizer(spellings, penNames AliasTable) *Normalizer {
	return &Normalizer{Spellings: spellings, PenNames: penNames}
}

// Despell folds spelling variants of a name into a single form.
func (n *Normalizer) Despell(name string) string {
	return Resolve(name, n.Spellings)
}

// Depenname replaces a pen name with the author's actual name.
func (n *Normalizer) Depenname(name string) string {
	return Resolve(name, n.PenNames)
}

// Normalize returns the canonical identity of an author: "Last, First" order,
// spelling variants folded, pen names replaced with the real name.
func (n *Normalizer) Normalize(name string) string {
	return n.Depenname(n.Despell(LastFirst(name)))
}

// SpellOnly formats and despells a name but keeps pen names intact. Used for
// the published-as byline, which should reflect spelling cleanup while still
// recording what actually appeared in print.
func (n *Normalizer) SpellOnly(name string) string {
	return n.Despell(LastFirst(name))
}
