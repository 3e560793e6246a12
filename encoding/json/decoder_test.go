package json

import (
	"errors"
	"strings"
	"testing"

	"github.com/arnodel/jsonsample/token"
)

// TestDecoderSimpleValues tests decoding of simple scalar values
func TestDecoderSimpleValues(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []token.Token
	}{
		{"true", "true", []token.Token{token.TrueScalar}},
		{"false", "false", []token.Token{token.FalseScalar}},
		{"null", "null", []token.Token{token.NullScalar}},
		{"integer", "42", []token.Token{tokenWithBytes(token.Number, "42")}},
		{"negative integer", "-123", []token.Token{tokenWithBytes(token.Number, "-123")}},
		{"zero", "0", []token.Token{tokenWithBytes(token.Number, "0")}},
		{"float", "3.14", []token.Token{tokenWithBytes(token.Number, "3.14")}},
		{"scientific notation", "1.5e10", []token.Token{tokenWithBytes(token.Number, "1.5e10")}},
		{"signed exponent", "2E-3", []token.Token{tokenWithBytes(token.Number, "2E-3")}},
		{"simple string", `"hello"`, []token.Token{tokenWithBytes(token.String, `"hello"`)}},
		{"empty string", `""`, []token.Token{tokenWithBytes(token.String, `""`)}},
		{"escaped string", `"a\"}bé"`, []token.Token{tokenWithBytes(token.String, `"a\"}bé"`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := decodeString(t, tt.input)
			assertTokensEqual(t, tokens, tt.expected)
		})
	}
}

// TestDecoderStructures tests arrays and objects
func TestDecoderStructures(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []token.Token
	}{
		{
			name:     "empty array",
			input:    "[]",
			expected: []token.Token{&token.StartArray{}, &token.EndArray{}},
		},
		{
			name:     "empty object",
			input:    " { } ",
			expected: []token.Token{&token.StartObject{}, &token.EndObject{}},
		},
		{
			name:  "array of objects",
			input: `[{"id": 1}, {"id": "m2", "tags": ["a"]}]`,
			expected: []token.Token{
				&token.StartArray{},
				&token.StartObject{},
				token.NewKey(token.String, []byte(`"id"`)),
				tokenWithBytes(token.Number, "1"),
				&token.EndObject{},
				&token.StartObject{},
				token.NewKey(token.String, []byte(`"id"`)),
				tokenWithBytes(token.String, `"m2"`),
				token.NewKey(token.String, []byte(`"tags"`)),
				&token.StartArray{},
				tokenWithBytes(token.String, `"a"`),
				&token.EndArray{},
				&token.EndObject{},
				&token.EndArray{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := decodeString(t, tt.input)
			assertTokensEqual(t, tokens, tt.expected)
		})
	}
}

// TestDecoderErrors tests that invalid input is reported with its position
func TestDecoderErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"trailing comma in array", "[1,]", "syntax error at L1,C4: unexpected: ']'"},
		{"trailing comma in object", `{"a":1,}`, "syntax error at L1,C8: expected object key, got: '}'"},
		{"missing colon", `{"a" 1}`, "syntax error at L1,C6: expected ':', got: '1'"},
		{"unterminated array", "[1", "syntax error at L1,C3: expected ']' or ',', got: <EOF>"},
		{"unterminated string", `"abc`, "syntax error at L1,C5: unterminated string: <EOF>"},
		{"bad literal", "nul", "syntax error at L1,C4: expected 'l', got: <EOF>"},
		{"bad number", "-x", "syntax error at L1,C2: expected digit, got: 'x'"},
		{"bad escape", `"\x"`, "syntax error at L1,C3: invalid escape character: 'x'"},
		{"second line", "[\n  1,\n  }", "syntax error at L3,C3: unexpected: '}'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDecoder([]byte(tt.input)).Decode(token.NewAccumulatorStream())
			if err == nil {
				t.Fatal("expected an error")
			}
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("expected *SyntaxError, got %T", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("got %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

// TestDecoderMultipleValues tests a stream of values separated by whitespace
func TestDecoderMultipleValues(t *testing.T) {
	d := NewDecoder([]byte("1 true\n{\"a\":null}\n"))
	count := 0
	for d.More() {
		if err := d.Decode(token.NewAccumulatorStream()); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		count++
	}
	if count != 3 {
		t.Fatalf("expected 3 values, got %d", count)
	}
	if err := d.Decode(token.NewAccumulatorStream()); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{`[{"id":1},{"id":2}]`, true},
		{"  {}\n", true},
		{"", false},
		{"[] []", false},
		{`[{"id":1},]`, false},
		{`[{"name":"a}b"}]`, true},
	}
	for _, tt := range tests {
		err := Valid([]byte(tt.input))
		if (err == nil) != tt.ok {
			t.Errorf("Valid(%q) = %v, want ok=%v", tt.input, err, tt.ok)
		}
	}
}

func TestDecoderDeepNesting(t *testing.T) {
	depth := 200
	input := strings.Repeat(`{"a":[`, depth) + strings.Repeat(`]}`, depth)
	var c token.CountingStream
	if err := NewDecoder([]byte(input)).Decode(&c); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if c.Values != 1 {
		t.Fatalf("expected 1 value, got %d", c.Values)
	}
}

func decodeString(t *testing.T, input string) []token.Token {
	t.Helper()
	decoder := NewDecoder([]byte(input))
	acc := token.NewAccumulatorStream()
	if err := decoder.Decode(acc); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return acc.GetTokens()
}

// tokenWithBytes creates a scalar token with specific bytes
func tokenWithBytes(typ token.ScalarType, bytes string) *token.Scalar {
	return token.NewScalar(typ, []byte(bytes))
}

// assertTokensEqual compares two token slices
func assertTokensEqual(t *testing.T, got, want []token.Token) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %d (%v), want %d", len(got), got, len(want))
	}

	for i := range got {
		g, w := got[i], want[i]
		gScalar, gOk := g.(*token.Scalar)
		wScalar, wOk := w.(*token.Scalar)

		if gOk != wOk {
			t.Errorf("token %d: type mismatch: got %T, want %T", i, g, w)
			continue
		}
		if gOk {
			if gScalar.Type() != wScalar.Type() || gScalar.IsKey() != wScalar.IsKey() {
				t.Errorf("token %d: scalar mismatch: got %v, want %v", i, gScalar, wScalar)
			}
			if string(gScalar.Bytes) != string(wScalar.Bytes) {
				t.Errorf("token %d: bytes mismatch: got %q, want %q", i, gScalar.Bytes, wScalar.Bytes)
			}
		} else if g.String() != w.String() {
			t.Errorf("token %d: expected %s, got %s", i, w, g)
		}
	}
}
