// Package scanner provides a byte cursor over JSON text that is already in
// memory, with the small amount of look-back and token recording the decoder
// needs.
package scanner

type Pos struct {
	Line int
	Col  int
}

type Scanner struct {
	buf []byte

	// Current position in buf
	// 0 <= current <= len(buf)
	current int

	// Position in buf of the currently recorded token.
	// -1 means not recording a token
	tokenStart int

	// Tracks how many EOFs have been read.  This is required to make
	// Back() work after an EOF has been read.
	eofCount int
}

func NewScanner(buf []byte) *Scanner {
	return &Scanner{
		buf:        buf,
		tokenStart: -1,
	}
}

// Read returns the next byte, or EOF once the input is exhausted.
func (s *Scanner) Read() byte {
	if s.current < len(s.buf) {
		b := s.buf[s.current]
		s.current++
		return b
	}
	s.eofCount++
	return EOF
}

func (s *Scanner) Peek() byte {
	if s.current < len(s.buf) {
		return s.buf[s.current]
	}
	return EOF
}

// Back undoes the last Read.
func (s *Scanner) Back() {
	if s.eofCount > 0 {
		s.eofCount--
		return
	}
	if s.current <= 0 || s.current <= s.tokenStart {
		panic("cannot go back from start")
	}
	s.current--
}

func (s *Scanner) SkipSpaceAndPeek() byte {
	for s.current < len(s.buf) && IsSpace(s.buf[s.current]) {
		s.current++
	}
	return s.Peek()
}

func (s *Scanner) StartToken() Pos {
	if s.tokenStart >= 0 {
		panic("already in record mode")
	}
	s.tokenStart = s.current
	return s.CurrentPos()
}

// EndToken returns the bytes read since StartToken.  The returned slice
// aliases the scanned input.
func (s *Scanner) EndToken() []byte {
	if s.tokenStart < 0 {
		panic("not in record mode")
	}
	tok := s.buf[s.tokenStart:s.current:s.current]
	s.tokenStart = -1
	return tok
}

// Offset is the number of bytes consumed so far.
func (s *Scanner) Offset() int {
	return s.current
}

func (s *Scanner) CurrentPos() Pos {
	return PosAt(s.buf, s.current)
}

// PosAt returns the zero-based line and column of offset in buf.  Columns
// count code points, not bytes.
func PosAt(buf []byte, offset int) Pos {
	var pos Pos
	if offset > len(buf) {
		offset = len(buf)
	}
	for _, b := range buf[:offset] {
		switch {
		case b == '\n':
			pos.Line++
			pos.Col = 0
		case b&0xC0 != 0x80:
			// Not a UTF-8 continuation byte
			pos.Col++
		}
	}
	return pos
}

// 0xFF is a byte that should not appear in a UTF-8 encoded stream of bytes.
const EOF byte = 0xFF
