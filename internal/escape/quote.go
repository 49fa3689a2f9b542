// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// Snippet renders up to limit bytes from the front of src as a double-quoted
// JSON string, for use in diagnostics. If src is longer than limit, the result
// is truncated at a rune boundary and marked with "...". Invalid UTF-8 is
// rendered as \ufffd.
func Snippet(src mem.RO, limit int) string {
	var more bool
	if src.Len() > limit {
		src, more = src.SliceTo(limit), true
	}
	buf := make([]byte, 0, src.Len()+2)
	putByte := func(bs ...byte) { buf = append(buf, bs...) }

	putByte('"')
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		if r == utf8.RuneError && n <= 1 && !utf8.FullRune(srcBytes(src)) {
			// A rune split by the truncation point; stop here.
			more = true
			break
		}
		if r < utf8.RuneSelf {
			if r < ' ' {
				if b := controlEsc[r]; b != 0 {
					putByte('\\', b)
				} else {
					putByte('\\', 'u', '0', '0', hexDigit[int(r>>4)], hexDigit[int(r&15)])
				}
			} else if r == '\\' || r == '"' {
				putByte('\\', byte(r))
			} else {
				putByte(byte(r))
			}
		} else {
			switch r {
			case utf8.RuneError:
				buf = append(buf, `\ufffd`...)
			case '\u2028': // line separator
				buf = append(buf, `\u2028`...)
			case '\u2029': // paragraph separator
				buf = append(buf, `\u2029`...)
			default:
				buf = utf8.AppendRune(buf, r)
			}
		}
		if n == 0 {
			n = 1
		}
		src = src.SliceFrom(n)
	}
	putByte('"')
	if more {
		buf = append(buf, "..."...)
	}
	return string(buf)
}

// srcBytes returns at most utf8.UTFMax bytes from the front of src.
func srcBytes(src mem.RO) []byte {
	var buf [utf8.UTFMax]byte
	n := src.SliceTo(min(src.Len(), len(buf))).Copy(buf[:])
	return buf[:n]
}
