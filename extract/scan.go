package extract

import (
	"bytes"
	"slices"
	"strconv"

	"github.com/arnodel/jsonsample/internal/debug"
)

// A Span locates a complete object in the scanned buffer, End exclusive.
type Span struct {
	Start int
	End   int
}

// Result describes the objects found so far in the designated array.
type Result struct {
	// The text from just after the array's '[' up to the end of the last
	// complete object, with trailing separators trimmed.  Empty when no object
	// is complete.
	Fragment string

	ObjectsFound int

	// Offset of the quoted field name, -1 if not located yet
	FieldOffset int

	// Offset of the array's '[', -1 if not located yet
	ArrayStart int

	// Offset just past the last complete object and the separators that
	// follow it.  ArrayStart+1 if no object is complete, 0 if the array is
	// not located.
	End int

	// Position of each complete object in the buffer
	Objects []Span

	// True when ObjectsFound reached the requested maximum
	Complete bool

	// True when the array was seen to end.  No more objects can follow.
	ArrayClosed bool
}

// Array returns the fragment wrapped as a JSON array.
func (r Result) Array() string {
	return "[" + r.Fragment + "]"
}

// Located reports whether the array opening has been found.
func (r Result) Located() bool {
	return r.ArrayStart >= 0
}

// A Scanner finds the first complete objects of a named array in a buffer
// that grows through successive calls to Write.  It never reads input itself:
// the caller feeds it and stops once the result is Complete or ArrayClosed.
//
// Only the bytes appended by each Write are scanned, and a Scanner given a
// buffer in several pieces reports exactly what ScanObjects reports for the
// concatenation.  Until the array is located only the tail of the input that
// may still hold the key is kept, so the key can lie any distance into the
// input.  From then on everything after the '[' is kept.  Offsets in a
// Result always count from the start of the input.
//
// Scanners must be created with NewScanner.  The zero Scanner never locates
// anything.
type Scanner struct {
	max int
	buf []byte // input from loc.base on

	m   machine
	pos int // next byte of buf to scan

	loc arrayLocator

	objStart  int // in buf
	objects   []Span
	end       int
	extending bool // consuming separators after an object
	stopped   bool
}

// NewScanner returns a Scanner looking for at most maxObjects objects in the
// array following the key "field".
func NewScanner(field string, maxObjects int) (*Scanner, error) {
	if maxObjects < 1 {
		return nil, ErrInvalidLimit
	}
	return &Scanner{
		max: maxObjects,
		loc: newArrayLocator(field),
	}, nil
}

// ScanObjects locates the first occurrence of the quoted key field in buf,
// then the '[' following it, and returns the first maxObjects complete objects
// of that array.
func ScanObjects(buf []byte, field string, maxObjects int) (Result, error) {
	s, err := NewScanner(field, maxObjects)
	if err != nil {
		return Result{}, err
	}
	s.scan(buf)
	return s.Result(), nil
}

// Write appends p to the buffer and scans it.  It never fails.
func (s *Scanner) Write(p []byte) (int, error) {
	s.scan(append(s.buf, p...))
	return len(p), nil
}

// Len returns the number of bytes buffered.
func (s *Scanner) Len() int {
	return len(s.buf)
}

// Done reports whether more input cannot change the objects found.
func (s *Scanner) Done() bool {
	return s.full() || s.m.state == closed
}

func (s *Scanner) full() bool {
	return s.max > 0 && len(s.objects) == s.max
}

// Located reports whether the array opening has been found.
func (s *Scanner) Located() bool {
	return s.loc.found()
}

func (s *Scanner) Result() Result {
	r := Result{
		ObjectsFound: len(s.objects),
		FieldOffset:  s.loc.fieldOffset(),
		ArrayStart:   s.loc.arrayStart(),
		Objects:      slices.Clone(s.objects),
		Complete:     s.full(),
		ArrayClosed:  s.m.state == closed,
	}
	if r.ArrayStart >= 0 {
		r.End = r.ArrayStart + 1
	}
	if len(s.objects) > 0 {
		r.End = s.end
		// buf[0] is the array's '['
		r.Fragment = string(bytes.TrimRight(s.buf[1:s.end-s.loc.base], separators))
	}
	return r
}

const separators = ", \t\r\n"

func (s *Scanner) scan(buf []byte) {
	s.buf = buf
	if s.max < 1 {
		return
	}
	if !s.loc.found() {
		found := s.loc.locate(s.buf)
		s.buf = s.buf[s.loc.release():]
		if !found {
			return
		}
		s.pos = 1
		s.m.state = inArray
	}
	base := s.loc.base
	for s.pos < len(s.buf) && !s.stopped {
		b := s.buf[s.pos]
		if s.extending && isSeparator(b) {
			s.end = base + s.pos + 1
			s.pos++
			continue
		}
		s.extending = false
		if s.Done() {
			s.stopped = true
			return
		}
		prev := s.m.state
		switch s.m.step(b) {
		case started:
			s.objStart = s.pos
		case completed:
			s.objects = append(s.objects, Span{Start: base + s.objStart, End: base + s.pos + 1})
			s.end = base + s.pos + 1
			s.extending = true
		}
		if debug.On && prev != s.m.state {
			debug.Printf("scan %d %q: %s -> %s (depth %d)", base+s.pos, b, prev, s.m.state, s.m.depth)
		}
		s.pos++
	}
}

// An arrayLocator finds the first occurrence of a quoted key, then the next
// '[', in input that arrives a buffer at a time.  Between calls the owner may
// drop the leading bytes release reports as no longer needed.
type arrayLocator struct {
	key []byte

	base     int // input offset of the first buffered byte
	searched int // buffered bytes already searched for the key (then the bracket)

	// Input offsets plus one, zero until found
	field int
	open  int
}

func newArrayLocator(field string) arrayLocator {
	return arrayLocator{key: []byte(strconv.Quote(field))}
}

func (l *arrayLocator) found() bool {
	return l.open > 0
}

// fieldOffset is the input offset of the key, -1 if not found.
func (l *arrayLocator) fieldOffset() int {
	return l.field - 1
}

// arrayStart is the input offset of the '[', -1 if not found.
func (l *arrayLocator) arrayStart() int {
	return l.open - 1
}

// locate searches the bytes of buf not searched yet.  buf holds the input
// from l.base on.
func (l *arrayLocator) locate(buf []byte) bool {
	if l.found() {
		return true
	}
	if l.field == 0 {
		// The key may straddle the previously searched bytes and the new ones.
		from := max(0, l.searched-len(l.key)+1)
		i := bytes.Index(buf[from:], l.key)
		if i < 0 {
			l.searched = len(buf)
			return false
		}
		l.field = l.base + from + i + 1
		l.searched = from + i + len(l.key)
	}
	j := bytes.IndexByte(buf[l.searched:], '[')
	if j < 0 {
		l.searched = len(buf)
		return false
	}
	l.open = l.base + l.searched + j + 1
	debug.Printf("array %s located at %d", l.key, l.arrayStart())
	return true
}

// release returns the number of leading buffered bytes the search no longer
// needs and moves the base past them.  The caller must drop them.  Before the
// key is found the last len(key)-1 searched bytes are kept; once the array is
// found, its '[' becomes the first buffered byte.
func (l *arrayLocator) release() int {
	var n int
	switch {
	case l.found():
		n = l.arrayStart() - l.base
	case l.field > 0:
		n = l.searched
	default:
		n = max(0, l.searched-len(l.key)+1)
	}
	l.base += n
	l.searched -= n
	return n
}
