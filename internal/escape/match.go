// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape recognizes and renders the escape sequences of JSON strings.
package escape

import "go4.org/mem"

// Status classifies the result of matching an escape sequence.
type Status byte

// Constants defining the valid Status values.
const (
	OK         Status = iota // a complete, well-formed escape
	Incomplete               // a prefix of a well-formed escape; more input is needed
	Invalid                  // not a well-formed escape, regardless of what follows
)

var statusStr = [...]string{
	OK:         "ok",
	Incomplete: "incomplete",
	Invalid:    "invalid",
}

func (s Status) String() string {
	if int(s) >= len(statusStr) {
		return "unknown"
	}
	return statusStr[s]
}

// Match reports the length and status of the escape sequence at the front of
// src, which must begin with a backslash. Only the shape of the escape is
// checked: the code unit of a \u escape is not otherwise validated.
//
// If the status is not OK, the length is 0.
func Match(src mem.RO) (int, Status) {
	if src.Len() == 0 || src.At(0) != '\\' {
		return 0, Invalid
	}
	if src.Len() < 2 {
		return 0, Incomplete
	}
	switch src.At(1) {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return 2, OK
	case 'u':
		// Need exactly four hex digits. Reject as soon as a non-digit shows
		// up, even if the sequence is not yet complete.
		for i := 2; i < 6; i++ {
			if i >= src.Len() {
				return 0, Incomplete
			} else if !isHexDigit(src.At(i)) {
				return 0, Invalid
			}
		}
		return 6, OK
	default:
		return 0, Invalid
	}
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
