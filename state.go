// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jchunk

// Container is the kind of an open JSON container.
type Container byte

// Constants defining the valid Container values.
const (
	Object Container = iota + 1 // object "{ ... }"
	Array                       // array "[ ... ]"
)

func (c Container) String() string {
	switch c {
	case Object:
		return "object"
	case Array:
		return "array"
	default:
		return "none"
	}
}

// state is a position in the JSON grammar, denoting what the parser expects
// to see next.
type state byte

// Do not reorder these constants without updating the step table below.
const (
	stValue      state = iota // any value (initial; after ":" or ",")
	stValue1                  // any value, or "]" closing an empty array
	stString                  // body of a string value
	stKeyString               // body of an object key
	stKey1                    // key, or "}" closing an empty object
	stKey                     // key after ","
	stColon                   // ":" after a key
	stObjectNext              // "," or "}" after a member value
	stArrayNext               // "," or "]" after an element
	stNumStart                // first digit after "-"
	stIntDigits               // more integer digits
	stIntEnd                  // optional fraction or exponent after the integer
	stFracStart               // first fraction digit after "."
	stFracDigits              // more fraction digits
	stExponent                // optional exponent after the fraction
	stExpSign                 // optional exponent sign
	stExpStart                // first exponent digit
	stExpDigits               // more exponent digits
	stDone                    // top-level value complete
	stDormant                 // single-value input finished; discard the rest

	numStates int = iota
)

var stateStr = [...]string{
	stValue:      "value",
	stValue1:     "value or ]",
	stString:     "string",
	stKeyString:  "object key",
	stKey1:       "object key or }",
	stKey:        "object key",
	stColon:      `":"`,
	stObjectNext: `"," or "}"`,
	stArrayNext:  `"," or "]"`,
	stNumStart:   "digit",
	stIntDigits:  "integer digits",
	stIntEnd:     "fraction or exponent",
	stFracStart:  "fraction digit",
	stFracDigits: "fraction digits",
	stExponent:   "exponent",
	stExpSign:    "exponent sign or digit",
	stExpStart:   "exponent digit",
	stExpDigits:  "exponent digits",
	stDone:       "end of value",
	stDormant:    "end of input",
}

func (s state) String() string {
	if int(s) >= len(stateStr) {
		return "invalid state"
	}
	return stateStr[s]
}

// A step is the outcome of a single transition attempt.
type step bool

const (
	proceed step = true  // the state changed or input was consumed; keep going
	suspend step = false // more input is needed to make progress
)

// stepFuncs is the state transition table, indexed by state. Each function
// attempts one transition from its state against the front of the buffer.
var stepFuncs = [...]func(*Parser) step{
	stValue:      (*Parser).stepValue,
	stValue1:     (*Parser).stepValue,
	stString:     (*Parser).stepString,
	stKeyString:  (*Parser).stepString,
	stKey1:       (*Parser).stepKey,
	stKey:        (*Parser).stepKey,
	stColon:      (*Parser).stepColon,
	stObjectNext: (*Parser).stepNext,
	stArrayNext:  (*Parser).stepNext,
	stNumStart:   (*Parser).stepNumStart,
	stIntDigits:  (*Parser).stepDigits,
	stIntEnd:     (*Parser).stepIntEnd,
	stFracStart:  (*Parser).stepRequiredDigit,
	stFracDigits: (*Parser).stepDigits,
	stExponent:   (*Parser).stepExponent,
	stExpSign:    (*Parser).stepExpSign,
	stExpStart:   (*Parser).stepRequiredDigit,
	stExpDigits:  (*Parser).stepDigits,
	stDone:       (*Parser).stepDone,
	stDormant:    (*Parser).stepDormant,
}

// Every state must have both a transition and a label. These fail to compile
// if a state is added without updating the tables.
var (
	_ = [1]struct{}{}[len(stepFuncs)-numStates]
	_ = [1]struct{}{}[len(stateStr)-numStates]
)
