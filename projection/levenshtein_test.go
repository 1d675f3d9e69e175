package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"Bad Habits", "Bad Habi", 2},
		{"winter", "winter wonder", 7},
		{"göttingen", "gottingen", 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, levenshtein(tc.a, tc.b), "levenshtein(%q, %q)", tc.a, tc.b)
	}
}
