// Package json validates and tokenizes JSON text held in memory.  It is used
// to check fragments cut out of larger documents before they are handed on.
package json

import (
	"errors"
	"fmt"

	"github.com/arnodel/jsonsample/internal/scanner"
	"github.com/arnodel/jsonsample/token"
)

// ErrEmpty is returned by Decode when there is no value left in the input.
var ErrEmpty = errors.New("no JSON value in input")

// A SyntaxError reports invalid JSON with its position in the input.
type SyntaxError struct {
	Msg    string
	Offset int
	Pos    scanner.Pos
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at L%d,C%d: %s", e.Pos.Line+1, e.Pos.Col+1, e.Msg)
}

// A Decoder reads JSON text and streams it as tokens.
type Decoder struct {
	scanr *scanner.Scanner
}

// NewDecoder sets up a new Decoder instance to read from the given input.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{scanr: scanner.NewScanner(data)}
}

// Valid returns nil if data holds exactly one JSON value (surrounded by
// optional whitespace).
func Valid(data []byte) error {
	d := NewDecoder(data)
	if err := d.Decode(&token.CountingStream{}); err != nil {
		return err
	}
	if d.More() {
		return d.unexpectedByte("expected end of input, got")
	}
	return nil
}

// More reports whether there is another value to decode.
func (d *Decoder) More() bool {
	return d.scanr.SkipSpaceAndPeek() != scanner.EOF
}

// Offset returns the number of input bytes consumed so far.
func (d *Decoder) Offset() int {
	return d.scanr.Offset()
}

// Decode reads a single JSON value and streams it to out.  It returns a
// *SyntaxError if the input is invalid JSON.
func (d *Decoder) Decode(out token.WriteStream) error {
	if !d.More() {
		return ErrEmpty
	}
	return d.parseValue(out)
}

func (d *Decoder) parseValue(out token.WriteStream) error {
	b := d.scanr.SkipSpaceAndPeek()
	switch b {
	case '"':
		s, err := d.parseString()
		if err != nil {
			return err
		}
		out.Put(s)
		return nil
	case '[':
		return d.parseArray(out)
	case '{':
		return d.parseObject(out)
	case 't':
		return d.parseLiteral(out, token.TrueScalar)
	case 'f':
		return d.parseLiteral(out, token.FalseScalar)
	case 'n':
		return d.parseLiteral(out, token.NullScalar)
	default:
		if b == '-' || scanner.IsDigit(b) {
			n, err := d.parseNumber()
			if err != nil {
				return err
			}
			out.Put(n)
			return nil
		}
		return d.unexpectedByte("unexpected")
	}
}

func (d *Decoder) parseArray(out token.WriteStream) error {
	if err := d.expectByte('['); err != nil {
		return err
	}
	out.Put(&token.StartArray{})
	if d.scanr.SkipSpaceAndPeek() == ']' {
		d.scanr.Read()
		out.Put(&token.EndArray{})
		return nil
	}
	for {
		if err := d.parseValue(out); err != nil {
			return err
		}
		switch d.scanr.SkipSpaceAndPeek() {
		case ']':
			d.scanr.Read()
			out.Put(&token.EndArray{})
			return nil
		case ',':
			d.scanr.Read()
		default:
			return d.unexpectedByte("expected ']' or ',', got")
		}
	}
}

func (d *Decoder) parseObject(out token.WriteStream) error {
	if err := d.expectByte('{'); err != nil {
		return err
	}
	out.Put(&token.StartObject{})
	if d.scanr.SkipSpaceAndPeek() == '}' {
		d.scanr.Read()
		out.Put(&token.EndObject{})
		return nil
	}
	for {
		if d.scanr.SkipSpaceAndPeek() != '"' {
			return d.unexpectedByte("expected object key, got")
		}
		key, err := d.parseString()
		if err != nil {
			return err
		}
		key.TypeAndFlags |= token.KeyMask
		out.Put(key)
		if d.scanr.SkipSpaceAndPeek() != ':' {
			return d.unexpectedByte("expected ':', got")
		}
		d.scanr.Read()
		if err := d.parseValue(out); err != nil {
			return err
		}
		switch d.scanr.SkipSpaceAndPeek() {
		case '}':
			d.scanr.Read()
			out.Put(&token.EndObject{})
			return nil
		case ',':
			d.scanr.Read()
		default:
			return d.unexpectedByte("expected '}' or ',', got")
		}
	}
}

func (d *Decoder) expectByte(xb byte) error {
	b := d.scanr.Read()
	if b != xb {
		d.scanr.Back()
		return d.unexpectedByte(fmt.Sprintf("expected %q, got", xb))
	}
	return nil
}

// unexpectedByte builds a SyntaxError about the next byte in the input.
func (d *Decoder) unexpectedByte(expected string) error {
	err := &SyntaxError{
		Offset: d.scanr.Offset(),
		Pos:    d.scanr.CurrentPos(),
	}
	if b := d.scanr.Peek(); b == scanner.EOF {
		err.Msg = expected + ": <EOF>"
	} else {
		err.Msg = fmt.Sprintf("%s: %q", expected, b)
	}
	return err
}

func (d *Decoder) parseString() (*token.Scalar, error) {
	scanr := d.scanr
	scanr.StartToken()
	if err := d.expectByte('"'); err != nil {
		scanr.EndToken()
		return nil, err
	}
	isUnescaped := true
	for {
		b := scanr.Read()
		switch {
		case b == '\\':
			isUnescaped = false
			switch scanr.Read() {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				continue
			case 'u':
				for i := 0; i < 4; i++ {
					if !scanner.IsHex(scanr.Read()) {
						scanr.Back()
						scanr.EndToken()
						return nil, d.unexpectedByte("expected hex, got")
					}
				}
			default:
				scanr.Back()
				scanr.EndToken()
				return nil, d.unexpectedByte("invalid escape character")
			}
		case b == '"':
			scalar := token.NewScalar(token.String, scanr.EndToken())
			if isUnescaped {
				scalar.TypeAndFlags |= token.UnescapedMask
			}
			return scalar, nil
		case b == scanner.EOF:
			scanr.Back()
			scanr.EndToken()
			return nil, d.unexpectedByte("unterminated string")
		case scanner.IsCtrl(b):
			scanr.Back()
			scanr.EndToken()
			return nil, d.unexpectedByte("invalid control character in string")
		}
	}
}

func (d *Decoder) parseNumber() (*token.Scalar, error) {
	scanr := d.scanr
	scanr.StartToken()
	fail := func(msg string) (*token.Scalar, error) {
		scanr.Back()
		scanr.EndToken()
		return nil, d.unexpectedByte(msg)
	}

	// Sign part
	b := scanr.Read()
	if b == '-' {
		b = scanr.Read()
	}

	// Integer part
	switch {
	case b == '0':
		b = scanr.Read()
	case b >= '1' && b <= '9':
		b, _ = readDigits(scanr)
	default:
		return fail("expected digit, got")
	}

	// Fraction part
	if b == '.' {
		var n int
		b, n = readDigits(scanr)
		if n == 0 {
			return fail("expected digit, got")
		}
	}

	// Exponent part
	if b == 'e' || b == 'E' {
		if p := scanr.Peek(); p == '-' || p == '+' {
			scanr.Read()
		}
		var n int
		_, n = readDigits(scanr)
		if n == 0 {
			return fail("expected digit, got")
		}
	}
	scanr.Back()
	return token.NewScalar(token.Number, scanr.EndToken()), nil
}

// readDigits consumes a run of digits and returns the byte following it and
// the run length.
func readDigits(scanr *scanner.Scanner) (byte, int) {
	var n int
	for {
		b := scanr.Read()
		if !scanner.IsDigit(b) {
			return b, n
		}
		n++
	}
}

func (d *Decoder) parseLiteral(out token.WriteStream, lit *token.Scalar) error {
	for _, xb := range lit.Bytes {
		if err := d.expectByte(xb); err != nil {
			return err
		}
	}
	out.Put(lit)
	return nil
}
