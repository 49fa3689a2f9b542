// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jchunk

import (
	"fmt"

	"go4.org/mem"
)

// A Span describes a contiguous span of the input stream.
type Span struct {
	Pos int64 // the start offset, 0-based
	End int64 // the end offset, 0-based (noninclusive)
}

func (s Span) String() string { return fmt.Sprintf("%d-%d", s.Pos, s.End) }

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Location describes the complete location of a range of source text,
// including line and column offsets.
type Location struct {
	Span
	First, Last LineCol
}

func (loc Location) String() string {
	if loc.First.Line == loc.Last.Line {
		return fmt.Sprintf("%s-%d", loc.First, loc.Last.Column)
	}
	return fmt.Sprintf("%s-%s", loc.First, loc.Last)
}

// A tracker records the position of the front of the input buffer as bytes
// are consumed from it.
type tracker struct {
	off       int64
	line, col int // 0-based
}

// advance updates t to account for consuming text.
func (t *tracker) advance(text mem.RO) {
	t.off += int64(text.Len())
	for {
		i := mem.IndexByte(text, '\n')
		if i < 0 {
			t.col += text.Len()
			return
		}
		t.line++
		t.col = 0
		text = text.SliceFrom(i + 1)
	}
}

// lineCol reports the 1-based line and 0-based column of t.
func (t tracker) lineCol() LineCol { return LineCol{Line: t.line + 1, Column: t.col} }
