// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jchunk

import "github.com/creachadair/mds/queue"

// A Value is a complete top-level JSON value reported by a Parser. The Value
// is owned by the receiver; the parser retains no reference to it.
type Value struct {
	Data     any      // the decoded value
	Text     []byte   // the source text of the value, verbatim
	Location Location // where the value occurred in the input
}

// A Handler receives the output of a Parser. Values and syntax errors are
// delivered in input order, synchronously from the call to Feed or Close that
// completed them.
//
// A Handler must not call Feed, Close, or Reset on the parser that invoked it.
type Handler interface {
	// Value reports a complete value. If Value reports an error, the parser
	// halts and that error is returned to the caller of Feed or Close.
	Value(v Value) error

	// SyntaxError reports a recoverable grammar violation. The parser has
	// already discarded the value in progress and will resume scanning after
	// the call returns.
	SyntaxError(err *SyntaxError)
}

// Funcs implements the Handler interface by delegating to functions.
// A nil field discards the corresponding reports.
type Funcs struct {
	OnValue func(Value) error
	OnError func(*SyntaxError)
}

// Value implements a method of the Handler interface.
func (f Funcs) Value(v Value) error {
	if f.OnValue == nil {
		return nil
	}
	return f.OnValue(v)
}

// SyntaxError implements a method of the Handler interface.
func (f Funcs) SyntaxError(err *SyntaxError) {
	if f.OnError != nil {
		f.OnError(err)
	}
}

// An Event is either a value or a syntax error reported by a parser.
// Exactly one of its fields is set.
type Event struct {
	Value *Value
	Err   *SyntaxError
}

// Queue is a Handler that records events for polling. A zero Queue is ready
// for use.
//
//	var q jchunk.Queue
//	p := jchunk.New(&q, nil)
//	p.Feed(chunk)
//	for e, ok := q.Next(); ok; e, ok = q.Next() {
//	   ...
//	}
type Queue struct {
	q *queue.Queue[Event]
}

func (q *Queue) events() *queue.Queue[Event] {
	if q.q == nil {
		q.q = queue.New[Event]()
	}
	return q.q
}

// Value implements a method of the Handler interface.
func (q *Queue) Value(v Value) error { q.events().Add(Event{Value: &v}); return nil }

// SyntaxError implements a method of the Handler interface.
func (q *Queue) SyntaxError(err *SyntaxError) { q.events().Add(Event{Err: err}) }

// Next removes and returns the oldest event in q, and reports whether one was
// available.
func (q *Queue) Next() (Event, bool) { return q.events().Pop() }

// Len reports the number of events waiting in q.
func (q *Queue) Len() int { return q.events().Len() }
