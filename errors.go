// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jchunk

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is reported by Feed if it is called after Close.
	ErrClosed = errors.New("parser is closed")

	// ErrTrailingData is wrapped by the SyntaxError reported when non-space
	// input follows the value in single-value mode.
	ErrTrailingData = errors.New("trailing data after value")
)

// SyntaxError describes a grammar violation in the input. Syntax errors are
// recoverable: the parser reports each one to its Handler and resumes.
//
// When the input ended before a value was complete, the error wraps
// io.ErrUnexpectedEOF.
type SyntaxError struct {
	Location LineCol // position of the offending input
	Offset   int64   // absolute byte offset of the offending input
	Message  string
	Near     string // quoted excerpt of the input at the error, if any

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	if s.Near == "" {
		return fmt.Sprintf("at %s: %s", s.Location, s.Message)
	}
	return fmt.Sprintf("at %s: %s near %s", s.Location, s.Message, s.Near)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// InternalError is reported when the decoder rejects text that the parser
// accepted as a complete value. It indicates a disagreement between the
// parser's grammar and the decoder's, not bad input. An InternalError is
// fatal: the parser halts and reports the same error from every later call.
type InternalError struct {
	Text []byte // the accepted text
	Err  error  // the error reported by the decoder
}

// Error satisfies the error interface.
func (e *InternalError) Error() string {
	return fmt.Sprintf("internal fault: decoder rejected %d bytes of accepted text: %v", len(e.Text), e.Err)
}

// Unwrap supports error wrapping.
func (e *InternalError) Unwrap() error { return e.Err }
