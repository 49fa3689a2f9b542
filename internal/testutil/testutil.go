// Package testutil defines support code for unit tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/creachadair/jchunk"
)

// Chunks splits s into consecutive pieces of at most n bytes each.
// If s is empty, Chunks returns a single empty piece.
func Chunks(s string, n int) []string {
	if s == "" || n <= 0 {
		return []string{s}
	}
	var out []string
	for len(s) > n {
		out = append(out, s[:n])
		s = s[n:]
	}
	return append(out, s)
}

// Splits returns a variety of ways to split s into chunks: the whole input,
// every split into two pieces, and pieces of one, two, three, and seven
// bytes. Each split is labelled for use as a subtest name.
func Splits(s string) map[string][]string {
	out := map[string][]string{"whole": {s}}
	for i := 1; i < len(s); i++ {
		out[fmt.Sprintf("at-%d", i)] = []string{s[:i], s[i:]}
	}
	for _, n := range []int{1, 2, 3, 7} {
		out[fmt.Sprintf("by-%d", n)] = Chunks(s, n)
	}
	return out
}

// A Recorder is a jchunk.Handler that records the output of a parser in a
// form convenient for comparison.
type Recorder struct {
	Values []any    // decoded values, in order
	Texts  []string // source text of values, in order
	Errors []string // syntax errors, without input excerpts
	Events []string // values ("V <text>") and errors ("E <message>") interleaved

	Errs []*jchunk.SyntaxError
}

// Value implements a method of the jchunk.Handler interface.
func (r *Recorder) Value(v jchunk.Value) error {
	r.Values = append(r.Values, v.Data)
	r.Texts = append(r.Texts, string(v.Text))
	r.Events = append(r.Events, "V "+string(v.Text))
	return nil
}

// SyntaxError implements a method of the jchunk.Handler interface.
func (r *Recorder) SyntaxError(err *jchunk.SyntaxError) {
	msg := fmt.Sprintf("at %s: %s", err.Location, err.Message)
	r.Errors = append(r.Errors, msg)
	r.Events = append(r.Events, "E "+msg)
	r.Errs = append(r.Errs, err)
}

// Feed constructs a parser with opts, feeds it the given chunks in order,
// and closes it. It returns the recorded output and the first error
// reported by the parser, if any.
func Feed(opts *jchunk.Options, chunks ...string) (*Recorder, error) {
	r := new(Recorder)
	p := jchunk.New(r, opts)
	for _, c := range chunks {
		if err := p.Feed([]byte(c)); err != nil {
			return r, err
		}
	}
	return r, p.Close()
}

// Decode decodes s with encoding/json, with numbers as json.Number, or
// panics.
func Decode(s string) any {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		panic(fmt.Sprintf("decode %q: %v", s, err))
	}
	return v
}
