package ccombinator

import "strings"

// MaxExpected bounds how many "expected X" labels a ParseError
// accumulates before further additions become silent no-ops.
// Grounded on original_source/include/ccombinator.h's
// CC_ERR_MAX_EXPECTED.
const MaxExpected = 16

// ParseError is both the error-accumulator the evaluator mutates
// while running and the value surfaced to callers of Parse on
// failure. At most one of Failure or Expected is meaningful at
// render time: a recorded Failure, even an empty one, wins (spec.md §3 "if failure is
// set, expected is ignored during rendering").
//
// Grounded on original_source/include/ccombinator.h's struct
// cc_error and cc_eval.c's new_error/add_expected, with rendering
// generalized from clarete-langlang/go/errors.go's ParsingError.Error.
type ParseError struct {
	Filename string
	Location Location
	Received rune

	hasFailure bool
	Failure    string

	Expected []string
}

// setFailure records an unconditional failure message (spec.md §4.9:
// only FAIL and unrecoverable evaluator errors call this). It records
// unconditionally and does not look at NOERROR — callers must check
// that themselves, mirroring cc_eval.c's new_error flag check.
func (e *ParseError) setFailure(filename string, loc Location, received rune, msg string) {
	e.Filename = filename
	e.Location = loc
	e.Received = received
	e.hasFailure = true
	e.Failure = msg
}

// addExpected appends label to the bounded expected-list, capturing
// location/received only on the first append (spec.md §4.9). Past
// MaxExpected entries, it is a silent no-op (spec.md §8).
func (e *ParseError) addExpected(filename string, loc Location, received rune, label string) {
	if len(e.Expected) >= MaxExpected {
		return
	}
	if len(e.Expected) == 0 {
		e.Filename = filename
		e.Location = loc
		e.Received = received
	}
	e.Expected = append(e.Expected, label)
}

// Error implements the error interface, rendering the way spec.md §6
// describes err_string/err_print: "[filename: ]error: <failure>" for
// a failure message, or "[filename:]LINE:COL: error: expected <list>
// at <received>" for an accumulated expected-list.
func (e *ParseError) Error() string {
	var b strings.Builder

	if e.hasFailure {
		if e.Filename != "" {
			b.WriteString(e.Filename)
			b.WriteString(": ")
		}
		b.WriteString("error: ")
		b.WriteString(e.Failure)
		return b.String()
	}

	if e.Filename != "" {
		b.WriteString(e.Filename)
		b.WriteString(":")
	}
	b.WriteString(e.Location.String())
	b.WriteString(": error: expected ")
	b.WriteString(formatExpectedList(e.Expected))
	b.WriteString(" at ")
	b.WriteString(printableRune(e.Received))
	return b.String()
}

func (e *ParseError) String() string { return e.Error() }

// formatExpectedList renders labels the way spec.md §6 specifies:
// nothing for an empty list, the label itself for one, and
// comma-joined with an " or " before the last for more than one.
func formatExpectedList(labels []string) string {
	switch len(labels) {
	case 0:
		return "nothing"
	case 1:
		return labels[0]
	default:
		return strings.Join(labels[:len(labels)-1], ", ") + " or " + labels[len(labels)-1]
	}
}
