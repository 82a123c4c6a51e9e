package display

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestWrap(t *testing.T) {
	text := strings.Repeat("word ", 40)
	for _, line := range strings.Split(Wrap(text), "\n") {
		if len(line) > DefaultWidth {
			t.Errorf("line exceeds %d characters: %q", DefaultWidth, line)
		}
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]struct {
		in  string
		exp string
	}{
		"empty":     {in: "", exp: ""},
		"lowercase": {in: "an orc", exp: "An orc"},
		"already":   {in: "Alice", exp: "Alice"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "capitalized", Capitalize(tt.in), tt.exp)
		})
	}
}

func TestTitle(t *testing.T) {
	tests := map[string]struct {
		in  string
		exp string
	}{
		"single word":  {in: "squire", exp: "Squire"},
		"multi word":   {in: "knight of the realm", exp: "Knight Of The Realm"},
		"mixed case":   {in: "gRAND master", exp: "Grand Master"},
		"empty string": {in: "", exp: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "title", Title(tt.in), tt.exp)
		})
	}
}
