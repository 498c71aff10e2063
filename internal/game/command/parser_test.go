package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParse(t *testing.T) {
	cases := []struct {
		line string
		cmd  string
		args []string
	}{
		{"", "", nil},
		{"   ", "", nil},
		{"pass", "pass", nil},
		{"NORTH", "north", nil},
		{"attack north 3", "attack", []string{"north", "3"}},
		{"  Attack   NE   3  ", "attack", []string{"ne", "3"}},
		{"+", "speed", []string{"+"}},
		{"-", "speed", []string{"-"}},
		{"=", "speed", []string{"reset"}},
		{".", "pass", nil},
		{"3", "focus", []string{"3"}},
		{"33", "33", nil},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			pr := Parse(tc.line)
			assert.Equal(t, tc.cmd, pr.Command)
			assert.Equal(t, tc.args, pr.Args)
		})
	}
}

func TestPropertyParseLowercasesEveryWord(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		words := rapid.SliceOfN(rapid.StringMatching(`[A-Za-z]{1,12}`), 1, 4).Draw(t, "words")
		pr := Parse(strings.Join(words, "  "))
		if pr.Command != strings.ToLower(words[0]) {
			t.Fatalf("command %q from %q", pr.Command, words[0])
		}
		if len(pr.Args) != len(words)-1 {
			t.Fatalf("got %d args for %d words", len(pr.Args), len(words))
		}
		for i, a := range pr.Args {
			if a != strings.ToLower(words[i+1]) {
				t.Fatalf("arg %d = %q, want lowercase of %q", i, a, words[i+1])
			}
		}
	})
}
