// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jchunk implements an incremental parser for streams of JSON values.
//
// # Parsing
//
// A Parser consumes input in chunks of arbitrary size, as it arrives from a
// network connection, a pipe, or any other source, and reports each top-level
// JSON value as soon as it is complete. The parser does not need the whole
// input in memory: it holds only the unconsumed input and the text of the
// value in progress. Chunk boundaries may fall anywhere, including inside a
// number, a string, an escape sequence, or a constant like true.
//
// Construct a Parser with a Handler to receive its output, call Feed with
// each chunk of input, and call Close at the end of the input:
//
//	p := jchunk.New(handler, nil)
//	for chunk := range chunks {
//	   if err := p.Feed(chunk); err != nil {
//	      log.Fatalf("Parse failed: %v", err)
//	   }
//	}
//	if err := p.Close(); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// A Parser is also an io.Writer, so input can be copied into it:
//
//	if _, err := io.Copy(p, r); err != nil { ... }
//	if err := p.Close(); err != nil { ... }
//
// Close is required: a value whose end is only known when the input ends,
// such as the number 15 at the very end of the input, is not reported until
// then.
//
// # Streaming
//
// By default, the input may contain any number of values, concatenated with
// or without whitespace between them:
//
//	{"a": 1} {"b": 2}[3]"four"
//
// Set the SingleValue option to require exactly one value. In that mode any
// non-space input after the value is reported as a syntax error.
//
// # Handlers
//
// The Handler interface receives the output of a parser:
//
//	Method        | Description
//	------------- | --------------------------------------------------
//	Value         | a complete value, decoded and with its source text
//	SyntaxError   | a grammar violation in the input
//
// The Funcs type adapts plain functions to a Handler, and the Queue type
// collects output for polling. See also package chunkio, which runs a parser
// over an io.Reader and delivers its output on a channel.
//
// # Errors
//
// Syntax errors are not fatal. After reporting one, the parser discards one
// byte of input along with the value in progress, and resumes scanning for
// the start of a new value. This recovery is a heuristic: after malformed
// input, the parser may report further errors before it resynchronizes.
//
// The text of each complete value is converted by a Decoder (by default,
// IterDecoder). If the decoder rejects text that the parser accepted, the
// parser halts and reports an *InternalError, which indicates a bug rather
// than bad input. If the handler's Value method reports an error, the parser
// also halts and reports that error.
package jchunk
