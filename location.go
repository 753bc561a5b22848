package ccombinator

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// eof is the sentinel code point returned by decode at or past the end
// of a buffer. It never collides with a valid Unicode scalar value.
const eof rune = -1

// Location is a position within a Source's buffer.  Line and Column
// are one-indexed; Offset is the zero-indexed byte offset into the
// buffer.  The zero value is not a valid Location — use
// StartLocation for the position a fresh evaluation begins at.
type Location struct {
	Line   int
	Column int
	Offset int
}

// StartLocation is the position every evaluation begins at: line 1,
// column 1, byte offset 0.
var StartLocation = Location{Line: 1, Column: 1, Offset: 0}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// advance returns the Location reached after consuming the code point
// r, which was found at the receiver's position.  A newline resets
// the column and bumps the line; anything else just advances the
// column by one, regardless of the rune's display width.
func (l Location) advance(r rune, width int) Location {
	next := Location{Line: l.Line, Column: l.Column, Offset: l.Offset + width}
	if r == '\n' {
		next.Line++
		next.Column = 1
	} else {
		next.Column++
	}
	return next
}

// decodeRune decodes the code point at byte offset off in buf.  It
// reports eof (with width 0) once off reaches len(buf) — the
// half-open boundary spec.md §9 settles on explicitly.  Invalid UTF-8
// decodes as utf8.RuneError with width 1, matching utf8.DecodeRune.
func decodeRune(buf []byte, off int) (rune, int) {
	if off >= len(buf) {
		return eof, 0
	}
	if b := buf[off]; b < utf8.RuneSelf {
		return rune(b), 1
	}
	r, size := utf8.DecodeRune(buf[off:])
	return r, size
}

// runeLen returns the number of bytes r encodes to in UTF-8.
func runeLen(r rune) int {
	return utf8.RuneLen(r)
}

// printableRune renders r the way error messages want to see it:
// named special cases for EOF and common control characters,
// single-quoted for anything else printable, and <u+XXXX> (at least
// four uppercase hex digits) for anything that isn't.
func printableRune(r rune) string {
	switch r {
	case eof:
		return "<end of file>"
	case '\t':
		return "<tab>"
	case '\n':
		return "<newline>"
	case '\r':
		return "<CR>"
	case '\v':
		return "<vtab>"
	}
	if unicode.IsPrint(r) {
		return fmt.Sprintf("'%c'", r)
	}
	return fmt.Sprintf("<u+%04X>", r)
}

// Character-class predicates.  These back the Whitespace/Digit/Alpha/…
// constructors in constructors.go and are grounded on
// original_source/internal.h's utf8_is_* family, extended past plain
// ASCII for whitespace only (spec.md §9's "assume... Zs if the
// implementer chooses to extend").

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isOctDigit(r rune) bool {
	return r >= '0' && r <= '7'
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isLower(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func isUnderscore(r rune) bool {
	return r == '_'
}

func isAlphaNum(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
