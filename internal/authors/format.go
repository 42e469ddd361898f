package authors

import (
	"regexp"
	"strings"
)

// suffixRe matches a trailing generational suffix preceded by a comma or
// whitespace boundary, e.g. "Smith Jr." or "Smith, III".
var suffixRe = regexp.MustCompile(`(?i)(?:,\s*|\s+)(Jr\.?|Sr\.?|II|III|IV|V)$`)

// particles are lowercase surname-joining words. A particle attaches to the
// following token(s) as part of the surname rather than the given name.
var particles = map[string]struct{}{
	"van": {}, "von": {}, "de": {}, "del": {}, "di": {}, "da": {},
	"la": {}, "le": {}, "du": {}, "dos": {}, "st": {}, "st.": {}, "ter": {},
	"van der": {}, "van den": {}, "de la": {},
}

// LastFirst converts a free-text personal name into "Last, First" order,
// honoring generational suffixes and multi-word surname particles. It is a
// total function: any input, including empty or degenerate names, produces a
// best-effort result without error.
func LastFirst(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}

	suffix := ""
	if m := suffixRe.FindStringSubmatchIndex(name); m != nil {
		suffix = strings.TrimSpace(name[m[2]:m[3]])
		name = strings.TrimRight(strings.TrimSpace(name[:m[0]]), ",")
		name = strings.TrimSpace(name)
	}

	var result string
	if idx := strings.Index(name, ","); idx >= 0 {
		// Already "Last, First"; keep it.
		last := strings.TrimSpace(name[:idx])
		rest := strings.TrimSpace(name[idx+1:])
		if rest != "" {
			result = last + ", " + rest
		} else {
			result = last
		}
	} else {
		tokens := strings.Fields(name)
		switch len(tokens) {
		case 0:
			result = ""
		case 1:
			result = tokens[0]
		default:
			last, first := splitSurname(tokens)
			if first != "" {
				result = last + ", " + first
			} else {
				result = last
			}
		}
	}

	if suffix != "" {
		result = result + " " + suffix
	}

	return strings.Join(strings.Fields(result), " ")
}

// splitSurname decides how many trailing tokens form the surname. With three
// or more tokens the last two may together be a two-word particle ("van der",
// "de la"); otherwise a lone particle in the second-to-last position pulls the
// final two tokens into the surname.
func splitSurname(tokens []string) (last, first string) {
	twoWord := false
	if len(tokens) >= 3 {
		lastTwo := strings.ToLower(tokens[len(tokens)-2] + " " + tokens[len(tokens)-1])
		if _, ok := particles[lastTwo]; ok {
			twoWord = true
		}
	}

	if twoWord {
		last = tokens[len(tokens)-2] + " " + tokens[len(tokens)-1]
		first = strings.Join(tokens[:len(tokens)-2], " ")
		return last, first
	}

	if _, ok := particles[strings.ToLower(tokens[len(tokens)-2])]; ok {
		last = tokens[len(tokens)-2] + " " + tokens[len(tokens)-1]
		first = strings.Join(tokens[:len(tokens)-2], " ")
		return last, first
	}

	last = tokens[len(tokens)-1]
	first = strings.Join(tokens[:len(tokens)-1], " ")
	return last, first
}
