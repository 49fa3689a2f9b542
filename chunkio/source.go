// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package chunkio

import (
	"context"
	"io"

	"github.com/creachadair/jchunk"
	"golang.org/x/sync/errgroup"
)

// A Source parses an input stream in the background and delivers the values
// and syntax errors it finds on a channel.
type Source struct {
	events chan jchunk.Event
	g      *errgroup.Group
}

// Start begins parsing r with the given parser options, reading chunks of at
// most size bytes. The caller must either receive from Events until it is
// closed, or cancel ctx.
func Start(ctx context.Context, r io.Reader, opts *jchunk.Options, size int) *Source {
	g, ctx := errgroup.WithContext(ctx)
	s := &Source{events: make(chan jchunk.Event), g: g}

	p := jchunk.New(jchunk.Funcs{
		OnValue: func(v jchunk.Value) error {
			return s.send(ctx, jchunk.Event{Value: &v})
		},
		OnError: func(err *jchunk.SyntaxError) {
			// If ctx has ended, the parser halts at the next value or read.
			s.send(ctx, jchunk.Event{Err: err})
		},
	}, opts)

	g.Go(func() error {
		defer close(s.events)
		_, err := Copy(ctx, p, r, size)
		return err
	})
	return s
}

// Events returns a channel that delivers the output of the parser in input
// order. The channel is closed when parsing ends.
func (s *Source) Events() <-chan jchunk.Event { return s.events }

// Wait blocks until parsing ends, and reports the error that ended it, or
// nil if the input was consumed completely. Syntax errors are delivered as
// events and do not cause Wait to fail.
func (s *Source) Wait() error { return s.g.Wait() }

func (s *Source) send(ctx context.Context, e jchunk.Event) error {
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
