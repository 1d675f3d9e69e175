package projection

import "unicode/utf8"

// levenshtein computes the classic edit distance between two strings:
// single-character insertions, deletions and substitutions, unit cost each.
// Operates on runes so multi-byte titles count per character.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return utf8.RuneCountInString(b)
	}
	if len(rb) == 0 {
		return utf8.RuneCountInString(a)
	}

	// Two-row dynamic program; prev[j] is the distance between ra[:i] and
	// rb[:j] from the previous row.
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
