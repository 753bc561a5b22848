package ccombinator

import (
	"fmt"
	"io"
	"os"
)

// Source owns the byte buffer an evaluation reads from, plus the
// metadata that travels with it: where it came from, how to release
// it, and how deep a recursive parser is allowed to go against it.
//
// Grounded on original_source/internal.h's struct cc_source (origin,
// fd, buffer, buffer_size, buffer_dtor); the fd slot becomes a plain
// io.Closer here since this port reads files eagerly instead of
// memory-mapping them (see DESIGN.md).
type Source struct {
	Origin           string
	Buffer           []byte
	MaxRecursionDepth int

	closer io.Closer
	closed bool
}

// anonymousOrigin is the placeholder Origin for sources that don't
// come from a named file, matching the C original's convention. It is
// never shown in rendered error messages (see displayFilename) — a
// reader has no file to open for "<string>", so spec §6's rendering
// omits the filename prefix entirely for it rather than printing a
// label that looks like a real path.
const anonymousOrigin = "<string>"

// displayFilename returns origin as it should appear in rendered
// error messages: empty for the anonymous placeholder, unchanged
// otherwise.
func displayFilename(origin string) string {
	if origin == anonymousOrigin {
		return ""
	}
	return origin
}

// NewSource wraps a UTF-8 string as a Source.  Origin is reported as
// "<string>", matching the C original's placeholder for sources that
// don't come from a named file.
func NewSource(s string) *Source {
	return &Source{Origin: anonymousOrigin, Buffer: []byte(s)}
}

// NewSourceN wraps the first n bytes of s as a Source.  It returns an
// error if n is negative or larger than len(s), mirroring the
// argument-validation contract spec.md §7.3 places on constructors.
func NewSourceN(s []byte, n int) (*Source, error) {
	if n < 0 || n > len(s) {
		return nil, fmt.Errorf("ccombinator: invalid length %d for %d-byte buffer", n, len(s))
	}
	buf := make([]byte, n)
	copy(buf, s[:n])
	return &Source{Origin: anonymousOrigin, Buffer: buf}, nil
}

// Open reads filename fully into memory and returns a Source whose
// Origin is the given path.  The C original memory-maps the file;
// this port reads it eagerly into a single buffer, consistent with
// spec.md §1's non-streaming model (see DESIGN.md for why os.ReadFile
// rather than an mmap package is the grounded choice here).
func Open(filename string) (*Source, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return &Source{Origin: filename, Buffer: buf}, nil
}

// NewSourceFromReaderCloser builds a Source from data already read
// into memory, keeping closer around so Close can release whatever
// produced it — the hook a caller wanting real mmap-backed input (or
// any other buffer-owning I/O) can use without this module importing
// one. See SPEC_FULL.md's "File source I/O" domain-stack entry.
func NewSourceFromReaderCloser(origin string, data []byte, closer io.Closer) *Source {
	return &Source{Origin: origin, Buffer: data, closer: closer}
}

// MaxRecursion sets the recursion depth cap used by Parse against s;
// max == 0 disables the cap. It returns s so callers can chain it
// onto a constructor, mirroring cc_max_recursion's signature.
func (s *Source) MaxRecursion(max int) *Source {
	s.MaxRecursionDepth = max
	return s
}

// Close releases any resource backing s (a file handle supplied via
// NewSourceFromReaderCloser or Open in a future mmap-backed variant).
// It is safe to call more than once.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
