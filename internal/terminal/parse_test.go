package terminal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"empty", "", nil},
		{"spaces only", "   ", nil},
		{"plain words", "list --all", []string{"list", "--all"}},
		{"collapses runs of spaces", "toggle    1", []string{"toggle", "1"}},
		{"double quotes", `add "Buy milk"`, []string{"add", "Buy milk"}},
		{"single quotes", `add 'Buy milk'`, []string{"add", "Buy milk"}},
		{"other quote kept inside", `add "it's fine"`, []string{"add", "it's fine"}},
		{"quotes glue to word", `add pre"fix suf"fix`, []string{"add", "prefix suffix"}},
		{"empty quotes dropped", `add ""`, []string{"add"}},
		{"unterminated quote", `add "open ended`, []string{"add", "open ended"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseArgs(tt.line)); diff != "" {
				t.Errorf("ParseArgs(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestComplete(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"a":          "dd",
		"T":          "oggle",
		"li":         "st",
		"list":       "",
		"list ":      "--all",
		"list --a":   "ll",
		"list -a":    "",
		"list --all": "",
		"zzz":        "",
		" add":       "",
		"add x":      "",
	}
	for input, want := range tests {
		assert.Equal(t, want, Complete(input), "Complete(%q)", input)
	}
}
