// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jchunk

import "go4.org/mem"

// Character classes, indexed by byte value.
var (
	spaceClass = [256]bool{' ': true, '\t': true, '\n': true, '\r': true}
	digitClass = [256]bool{
		'0': true, '1': true, '2': true, '3': true, '4': true,
		'5': true, '6': true, '7': true, '8': true, '9': true,
	}

	// Bytes that may continue a bare word, and so cannot follow a keyword.
	wordClass = func() (c [256]bool) {
		for b := 'a'; b <= 'z'; b++ {
			c[b], c[b-'a'+'A'] = true, true
		}
		for b := '0'; b <= '9'; b++ {
			c[b] = true
		}
		c['_'] = true
		return
	}()
)

func isSpace(ch byte) bool { return spaceClass[ch] }
func isDigit(ch byte) bool { return digitClass[ch] }

// runLength reports the length of the longest prefix of b whose bytes all
// belong to class.
func runLength(b mem.RO, class *[256]bool) int {
	for i := 0; i < b.Len(); i++ {
		if !class[b.At(i)] {
			return i
		}
	}
	return b.Len()
}

// stringRun reports the length of the longest prefix of b that may appear
// verbatim in the body of a string, that is, everything up to the first
// quotation mark, backslash, or control character.
func stringRun(b mem.RO) int {
	for i := 0; i < b.Len(); i++ {
		if ch := b.At(i); ch == '"' || ch == '\\' || ch < ' ' {
			return i
		}
	}
	return b.Len()
}

// A match is the outcome of matching a lexical class against the front of
// the buffer.
type match byte

const (
	matched  match = iota // the class matched
	needMore              // the buffered text is a viable prefix; wait for more
	mismatch              // the buffered text cannot match
)

var keywords = [...]mem.RO{
	't': mem.S("true"),
	'f': mem.S("false"),
	'n': mem.S("null"),
}

// matchKeyword matches the constant true, false, or null at the front of b,
// which must be non-empty and begin with "t", "f", or "n". It returns the
// length of the keyword on success.
//
// A keyword must be followed by a byte that cannot continue a word. If b holds
// exactly the keyword, the match is deferred until more input arrives or eof
// is true.
func matchKeyword(b mem.RO, eof bool) (int, match) {
	want := keywords[b.At(0)]
	n := want.Len()
	if b.Len() < n {
		if mem.HasPrefix(want, b) && !eof {
			return 0, needMore
		}
		return 0, mismatch
	}
	if !mem.HasPrefix(b, want) {
		return 0, mismatch
	}
	if b.Len() == n {
		if eof {
			return n, matched
		}
		return 0, needMore
	}
	if wordClass[b.At(n)] {
		return 0, mismatch
	}
	return n, matched
}
