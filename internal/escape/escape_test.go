// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape_test

import (
	"testing"

	"github.com/creachadair/jchunk/internal/escape"
	"go4.org/mem"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  escape.Status
	}{
		{``, 0, escape.Invalid},
		{`x`, 0, escape.Invalid},
		{`\`, 0, escape.Incomplete},
		{`\"`, 2, escape.OK},
		{`\\rest`, 2, escape.OK},
		{`\/`, 2, escape.OK},
		{`\b`, 2, escape.OK},
		{`\f`, 2, escape.OK},
		{`\n`, 2, escape.OK},
		{`\r`, 2, escape.OK},
		{`\t`, 2, escape.OK},
		{`\a`, 0, escape.Invalid},
		{`\'`, 0, escape.Invalid},
		{`\U0041`, 0, escape.Invalid},
		{`\u`, 0, escape.Incomplete},
		{`\u0`, 0, escape.Incomplete},
		{`\u00e`, 0, escape.Incomplete},
		{`\u00e9`, 6, escape.OK},
		{`\uABCDEF`, 6, escape.OK},
		{`\ux`, 0, escape.Invalid},
		{`\u12g`, 0, escape.Invalid},
		{`\u12 4`, 0, escape.Invalid},
	}
	for _, test := range tests {
		n, st := escape.Match(mem.S(test.input))
		if n != test.n || st != test.want {
			t.Errorf("Match(%#q): got (%d, %v), want (%d, %v)", test.input, n, st, test.n, test.want)
		}
	}
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		input string
		limit int
		want  string
	}{
		{"", 10, `""`},
		{"abc", 10, `"abc"`},
		{"abcdef", 3, `"abc"...`},
		{`a"b\c`, 10, `"a\"b\\c"`},
		{"a\tb\nc\x01", 10, `"a\tb\nc\u0001"`},
		{"\xff!", 10, `"\ufffd!"`},
		{"\u2028\u2029", 10, `"\u2028\u2029"`},
		{"héllo", 10, `"héllo"`},

		// A rune split by the limit is dropped.
		{"aé", 2, `"a"...`},
		{"日本", 4, `"日"...`},
	}
	for _, test := range tests {
		if got := escape.Snippet(mem.S(test.input), test.limit); got != test.want {
			t.Errorf("Snippet(%q, %d): got %#q, want %#q", test.input, test.limit, got, test.want)
		}
	}
}

func TestStatusString(t *testing.T) {
	for st, want := range map[escape.Status]string{
		escape.OK:         "ok",
		escape.Incomplete: "incomplete",
		escape.Invalid:    "invalid",
		escape.Status(99): "unknown",
	} {
		if got := st.String(); got != want {
			t.Errorf("Status %d: got %q, want %q", st, got, want)
		}
	}
}
