// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package chunkio connects jchunk parsers to I/O streams.
package chunkio

import (
	"context"
	"fmt"
	"io"

	"github.com/creachadair/jchunk"
)

// DefaultChunkSize is the read size used when a size is not specified.
const DefaultChunkSize = 32 << 10

// Copy reads r in chunks of at most size bytes and feeds each chunk to p.
// When r reports io.EOF, Copy closes p. If size <= 0, DefaultChunkSize is
// used. Copy returns the number of bytes read from r.
//
// Copy stops early if ctx ends or p halts. The context is checked between
// reads, so a read that blocks is not interrupted.
func Copy(ctx context.Context, p *jchunk.Parser, r io.Reader, size int) (int64, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	buf := make([]byte, size)
	var nr int64
	for {
		if err := ctx.Err(); err != nil {
			return nr, err
		}
		n, err := r.Read(buf)
		if n > 0 {
			nr += int64(n)
			if ferr := p.Feed(buf[:n]); ferr != nil {
				return nr, ferr
			}
		}
		if err == io.EOF {
			return nr, p.Close()
		} else if err != nil {
			return nr, fmt.Errorf("read input: %w", err)
		}
	}
}
