// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jchunk

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// A Decoder converts the complete source text of a JSON value into a Go
// value. The parser only hands a decoder text it has already accepted as
// well-formed, so a decoder error indicates an internal fault.
type Decoder interface {
	Decode(text []byte) (any, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(text []byte) (any, error)

// Decode implements the Decoder interface.
func (f DecoderFunc) Decode(text []byte) (any, error) { return f(text) }

// IterDecoder is the default Decoder. It uses json-iterator configured for
// compatibility with encoding/json, except that numbers are decoded as
// json.Number values rather than float64.
var IterDecoder Decoder = iterDecoder{api: jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()}

type iterDecoder struct{ api jsoniter.API }

func (d iterDecoder) Decode(text []byte) (any, error) {
	var v any
	if err := d.api.Unmarshal(text, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// StdDecoder is a Decoder that uses encoding/json. Like IterDecoder, it
// decodes numbers as json.Number values.
var StdDecoder Decoder = DecoderFunc(func(text []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("extra data after value")
	}
	return v, nil
})
