// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jchunk

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/creachadair/jchunk/internal/escape"
	"github.com/creachadair/mds/stack"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go4.org/mem"
)

// MaxDepth is the maximum nesting depth of containers the parser accepts.
// It matches the limit enforced by the standard decoders.
const MaxDepth = 10000

const (
	// Buffers larger than this are released rather than reused once empty.
	maxRetained = 64 << 10

	// Length of the input excerpt included in a syntax error.
	nearBytes = 16
)

// Options are settings for a Parser. A nil *Options provides default values
// as described for the fields.
type Options struct {
	// If true, the input must consist of exactly one JSON value, optionally
	// surrounded by whitespace. Any further input is reported once as a
	// syntax error wrapping ErrTrailingData, and then discarded.
	//
	// By default, the input may contain any number of concatenated values,
	// separated by optional whitespace.
	SingleValue bool

	// The decoder used to convert complete values. If nil, IterDecoder.
	Decoder Decoder

	// Diagnostic logs are written here. If nil, logs are discarded.
	Logger log.Logger

	// If non-nil, parser activity is recorded here.
	Metrics *Metrics
}

// A Parser is an incremental JSON parser. Input is delivered in chunks of any
// size by calling Feed (or Write), and each top-level value is reported to a
// Handler as soon as it is complete. The boundaries of the chunks do not
// affect the values or errors reported.
//
// A Parser is not safe for concurrent use by multiple goroutines.
type Parser struct {
	h       Handler
	single  bool
	dec     Decoder
	log     log.Logger
	metrics *Metrics

	buf []byte // input buffer; buf[pos:] has not been consumed
	pos int
	acc []byte // source text of the value in progress

	stk    *stack.Stack[Container] // enclosing containers, outside parent
	parent Container               // innermost open container, or 0

	state state
	at    tracker // position of buf[pos] in the input
	start tracker // position where the value in progress began

	eof  bool  // no further input will arrive
	busy bool  // a Handler method is active
	halt error // a fatal error; no further progress is possible
	held int   // bytes last reported as buffered to metrics
}

// New constructs a new Parser that delivers its output to h.
// If opts == nil, default options are used.
func New(h Handler, opts *Options) *Parser {
	p := &Parser{
		h:   h,
		dec: IterDecoder,
		log: log.NewNopLogger(),
		stk: stack.New[Container](),
	}
	if opts != nil {
		p.single = opts.SingleValue
		if opts.Decoder != nil {
			p.dec = opts.Decoder
		}
		if opts.Logger != nil {
			p.log = opts.Logger
		}
		p.metrics = opts.Metrics
	}
	return p
}

// Feed appends chunk to the input and processes as much of the buffered input
// as possible. When Feed returns, the parser is ready for the next chunk.
// Values and syntax errors are reported to the handler before Feed returns.
//
// Feed reports an error only if the parser has halted: either the decoder
// rejected an accepted value (*InternalError), or the handler reported an
// error. Once halted, every later call reports the same error.
// Feed reports ErrClosed if it is called after Close.
func (p *Parser) Feed(chunk []byte) error {
	p.checkBusy("Feed")
	if p.halt != nil {
		return p.halt
	} else if p.eof {
		return ErrClosed
	}
	p.compact()
	p.buf = append(p.buf, chunk...)
	p.metrics.addBytes(len(chunk))
	return p.run()
}

// Write implements the io.Writer interface by calling Feed.
func (p *Parser) Write(data []byte) (int, error) {
	if err := p.Feed(data); err != nil {
		return 0, err
	}
	return len(data), nil
}

// WriteString implements the io.StringWriter interface by calling Feed.
func (p *Parser) WriteString(s string) (int, error) { return p.Write([]byte(s)) }

// Close marks the end of the input. This completes a value whose end could
// not be seen until the input ended, such as a number at the end of the
// input, and reports a syntax error if the input ends inside a value.
//
// Close returns the halt error, if any. Calling Close more than once is
// harmless.
func (p *Parser) Close() error {
	p.checkBusy("Close")
	if p.halt != nil || p.eof {
		return p.halt
	}
	p.eof = true
	return p.run()
}

// Reset discards all buffered input and parser state, including any halt
// error, and makes p ready to parse a new input.
func (p *Parser) Reset() {
	p.checkBusy("Reset")
	p.buf, p.pos = p.buf[:0], 0
	p.clearValue()
	p.state = stValue
	p.at, p.start = tracker{}, tracker{}
	p.eof = false
	p.halt = nil
	p.updateBuffered()
}

// State describes what the parser expects to see next.
func (p *Parser) State() string { return p.state.String() }

// Depth reports the number of containers open in the value in progress.
func (p *Parser) Depth() int {
	if p.parent == 0 {
		return 0
	}
	return p.stk.Len() + 1
}

// Buffered reports the number of input bytes that have not yet been consumed.
func (p *Parser) Buffered() int { return len(p.buf) - p.pos }

// Pending reports the number of bytes accumulated for the value in progress.
func (p *Parser) Pending() int { return len(p.acc) }

// Offset reports the number of input bytes consumed so far.
func (p *Parser) Offset() int64 { return p.at.off }

// Halted reports the error that halted p, or nil.
func (p *Parser) Halted() error { return p.halt }

func (p *Parser) checkBusy(op string) {
	if p.busy {
		panic(fmt.Sprintf("jchunk: %s called from a Handler method", op))
	}
}

// run executes transitions until the parser needs more input or halts.
func (p *Parser) run() error {
	p.busy = true
	defer func() { p.busy = false }()

	for p.halt == nil {
		if stepFuncs[p.state](p) == suspend {
			break
		}
	}
	p.updateBuffered()
	return p.halt
}

// rest returns a view of the unconsumed input.
func (p *Parser) rest() mem.RO { return mem.B(p.buf[p.pos:]) }

// consume moves n bytes from the front of the input to the value in progress.
func (p *Parser) consume(n int) {
	if len(p.acc) == 0 {
		p.start = p.at
	}
	text := p.buf[p.pos : p.pos+n]
	p.acc = append(p.acc, text...)
	p.at.advance(mem.B(text))
	p.pos += n
}

// skip discards n bytes from the front of the input.
func (p *Parser) skip(n int) {
	p.at.advance(mem.B(p.buf[p.pos : p.pos+n]))
	p.pos += n
}

// compact moves the unconsumed input to the front of the buffer.
func (p *Parser) compact() {
	if p.pos == 0 {
		return
	}
	n := copy(p.buf, p.buf[p.pos:])
	p.buf, p.pos = p.buf[:n], 0
	if n == 0 && cap(p.buf) > maxRetained {
		p.buf = nil
	}
}

func (p *Parser) clearValue() {
	if cap(p.acc) > maxRetained {
		p.acc = nil
	} else {
		p.acc = p.acc[:0]
	}
	p.stk.Clear()
	p.parent = 0
}

func (p *Parser) updateBuffered() {
	cur := p.Buffered() + p.Pending()
	p.metrics.adjustBuffered(cur - p.held)
	p.held = cur
}

// open records the start of a new container of kind c, whose opening bracket
// is at the front of the input.
func (p *Parser) open(c Container, next state) step {
	if p.Depth() >= MaxDepth {
		return p.fail(nil, "exceeded maximum nesting depth %d", MaxDepth)
	}
	p.consume(1)
	if p.parent != 0 {
		p.stk.Add(p.parent)
	}
	p.parent = c
	p.state = next
	return proceed
}

// closeContainer consumes the closing bracket of the innermost container.
func (p *Parser) closeContainer() step {
	p.consume(1)
	p.parent, _ = p.stk.Pop()
	p.afterValue()
	return proceed
}

// afterValue updates the state after a complete value. If the value is at
// the top level, it is flushed to the handler.
func (p *Parser) afterValue() {
	switch p.parent {
	case Object:
		p.state = stObjectNext
	case Array:
		p.state = stArrayNext
	default:
		p.state = stDone
		p.flush()
	}
}

// flush decodes the complete value in progress and reports it.
func (p *Parser) flush() {
	text := bytes.Clone(p.acc)
	loc := Location{
		Span:  Span{Pos: p.start.off, End: p.at.off},
		First: p.start.lineCol(),
		Last:  p.at.lineCol(),
	}
	p.clearValue()

	data, err := p.dec.Decode(text)
	if err != nil {
		p.metrics.addInternalFault()
		level.Error(p.log).Log("msg", "decoder rejected an accepted value", "span", loc.Span, "err", err)
		p.halt = &InternalError{Text: text, Err: err}
		return
	}
	p.metrics.addValue()
	if err := p.h.Value(Value{Data: data, Text: text, Location: loc}); err != nil {
		level.Debug(p.log).Log("msg", "handler halted the parser", "err", err)
		p.halt = err
	}
}

// report delivers a syntax error at the front of the input to the handler.
func (p *Parser) report(err error, msg string, args ...any) {
	serr := &SyntaxError{
		Location: p.at.lineCol(),
		Offset:   p.at.off,
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	}
	if rest := p.rest(); rest.Len() != 0 {
		serr.Near = escape.Snippet(rest, nearBytes)
	}
	p.metrics.addSyntaxError()
	level.Debug(p.log).Log("msg", "syntax error", "offset", serr.Offset, "err", serr.Message,
		"discarded", len(p.acc))
	p.h.SyntaxError(serr)
}

// fail reports a syntax error, discards the offending byte and the value in
// progress, and returns to the initial state to resynchronize. If the input
// ended prematurely, all the remaining input is discarded, since nothing can
// follow it.
func (p *Parser) fail(err error, msg string, args ...any) step {
	p.report(err, msg, args...)
	if n := p.Buffered(); n != 0 {
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			n = 1
		}
		p.skip(n)
	}
	p.clearValue()
	p.state = stValue
	return proceed
}

// await suspends for more input, or reports a syntax error if the input has
// ended.
func (p *Parser) await() step {
	if p.eof {
		return p.fail(io.ErrUnexpectedEOF, "unexpected end of input, expected %v", p.state)
	}
	return suspend
}

// unexpected reports a syntax error for the byte at the front of the input.
func (p *Parser) unexpected() step {
	return p.fail(nil, "unexpected %q, expected %v", p.rest().At(0), p.state)
}

// skipSpace consumes leading whitespace, and reports whether there was any.
func (p *Parser) skipSpace(b mem.RO) bool {
	n := runLength(b, &spaceClass)
	if n != 0 {
		p.consume(n)
	}
	return n != 0
}

// stValue, stValue1
func (p *Parser) stepValue() step {
	b := p.rest()
	if b.Len() == 0 {
		if p.parent == 0 {
			return suspend // between values
		}
		return p.await()
	}
	if n := runLength(b, &spaceClass); n != 0 {
		if p.parent == 0 {
			p.skip(n) // leading space is not part of the value
		} else {
			p.consume(n)
		}
		return proceed
	}

	switch ch := b.At(0); {
	case ch == '"':
		p.consume(1)
		p.state = stString
	case ch == '{':
		return p.open(Object, stKey1)
	case ch == '[':
		return p.open(Array, stValue1)
	case ch == ']' && p.state == stValue1:
		return p.closeContainer()
	case ch == '-':
		p.consume(1)
		p.state = stNumStart
	case ch == '0':
		p.consume(1)
		p.state = stIntEnd
	case isDigit(ch):
		p.consume(1)
		p.state = stIntDigits
	case ch == 't' || ch == 'f' || ch == 'n':
		n, m := matchKeyword(b, p.eof)
		switch m {
		case needMore:
			return suspend
		case mismatch:
			if p.eof && mem.HasPrefix(keywords[ch], b) {
				return p.fail(io.ErrUnexpectedEOF, "incomplete constant %s", escape.Snippet(b, nearBytes))
			}
			return p.fail(nil, "invalid constant, expected %v", p.state)
		}
		p.consume(n)
		p.afterValue()
	default:
		return p.unexpected()
	}
	return proceed
}

// stString, stKeyString
func (p *Parser) stepString() step {
	b := p.rest()
	if n := stringRun(b); n != 0 {
		p.consume(n)
		return proceed
	} else if b.Len() == 0 {
		if p.eof {
			return p.fail(io.ErrUnexpectedEOF, "unterminated %v", p.state)
		}
		return suspend
	}

	switch ch := b.At(0); ch {
	case '"':
		p.consume(1)
		if p.state == stKeyString {
			p.state = stColon
		} else {
			p.afterValue()
		}
	case '\\':
		n, st := escape.Match(b)
		switch st {
		case escape.Incomplete:
			if p.eof {
				return p.fail(io.ErrUnexpectedEOF, "incomplete escape sequence in %v", p.state)
			}
			return suspend
		case escape.Invalid:
			return p.fail(nil, "invalid escape sequence in %v", p.state)
		}
		p.consume(n)
	default:
		return p.fail(nil, "unescaped control %q in %v", ch, p.state)
	}
	return proceed
}

// stKey1, stKey
func (p *Parser) stepKey() step {
	b := p.rest()
	if b.Len() == 0 {
		return p.await()
	} else if p.skipSpace(b) {
		return proceed
	}
	switch ch := b.At(0); {
	case ch == '"':
		p.consume(1)
		p.state = stKeyString
	case ch == '}' && p.state == stKey1:
		return p.closeContainer()
	default:
		return p.unexpected()
	}
	return proceed
}

// stColon
func (p *Parser) stepColon() step {
	b := p.rest()
	if b.Len() == 0 {
		return p.await()
	} else if p.skipSpace(b) {
		return proceed
	} else if b.At(0) != ':' {
		return p.unexpected()
	}
	p.consume(1)
	p.state = stValue
	return proceed
}

// stObjectNext, stArrayNext
func (p *Parser) stepNext() step {
	b := p.rest()
	if b.Len() == 0 {
		return p.await()
	} else if p.skipSpace(b) {
		return proceed
	}
	switch ch := b.At(0); {
	case ch == ',' && p.state == stObjectNext:
		p.consume(1)
		p.state = stKey
	case ch == ',':
		p.consume(1)
		p.state = stValue
	case ch == '}' && p.state == stObjectNext, ch == ']' && p.state == stArrayNext:
		return p.closeContainer()
	default:
		return p.unexpected()
	}
	return proceed
}

// stNumStart
func (p *Parser) stepNumStart() step {
	b := p.rest()
	if b.Len() == 0 {
		return p.await()
	}
	switch ch := b.At(0); {
	case ch == '0':
		p.consume(1)
		p.state = stIntEnd
	case isDigit(ch):
		p.consume(1)
		p.state = stIntDigits
	default:
		return p.unexpected()
	}
	return proceed
}

// stIntDigits, stFracDigits, stExpDigits
func (p *Parser) stepDigits() step {
	b := p.rest()
	if n := runLength(b, &digitClass); n != 0 {
		p.consume(n)
		return proceed
	} else if b.Len() == 0 && !p.eof {
		return suspend // the run of digits may continue
	}
	switch p.state {
	case stIntDigits:
		p.state = stIntEnd
	case stFracDigits:
		p.state = stExponent
	default:
		p.afterValue()
	}
	return proceed
}

// stIntEnd
func (p *Parser) stepIntEnd() step {
	b := p.rest()
	if b.Len() == 0 {
		if !p.eof {
			return suspend
		}
		p.afterValue()
		return proceed
	}
	switch ch := b.At(0); {
	case ch == '.':
		p.consume(1)
		p.state = stFracStart
	case ch == 'e' || ch == 'E':
		p.consume(1)
		p.state = stExpSign
	case isDigit(ch):
		// Only a leading zero can be followed by a digit here.
		return p.fail(nil, "extra leading zeroes")
	default:
		p.afterValue()
	}
	return proceed
}

// stFracStart, stExpStart
func (p *Parser) stepRequiredDigit() step {
	b := p.rest()
	if b.Len() == 0 {
		return p.await()
	} else if !isDigit(b.At(0)) {
		return p.unexpected()
	}
	p.consume(1)
	if p.state == stFracStart {
		p.state = stFracDigits
	} else {
		p.state = stExpDigits
	}
	return proceed
}

// stExponent
func (p *Parser) stepExponent() step {
	b := p.rest()
	if b.Len() == 0 {
		if !p.eof {
			return suspend
		}
		p.afterValue()
		return proceed
	}
	if ch := b.At(0); ch == 'e' || ch == 'E' {
		p.consume(1)
		p.state = stExpSign
	} else {
		p.afterValue()
	}
	return proceed
}

// stExpSign
func (p *Parser) stepExpSign() step {
	b := p.rest()
	if b.Len() == 0 {
		return p.await()
	}
	if ch := b.At(0); ch == '+' || ch == '-' {
		p.consume(1)
	}
	p.state = stExpStart
	return proceed
}

// stDone
func (p *Parser) stepDone() step {
	b := p.rest()
	if n := runLength(b, &spaceClass); n != 0 {
		p.skip(n)
		return proceed
	} else if b.Len() == 0 {
		return suspend
	}
	if p.single {
		p.report(ErrTrailingData, "unexpected %q after value", b.At(0))
		p.state = stDormant
		return proceed
	}
	p.state = stValue
	return proceed
}

// stDormant
func (p *Parser) stepDormant() step {
	p.skip(p.Buffered())
	return suspend
}
