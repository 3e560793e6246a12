package token

type WriteStream interface {
	Put(Token)
}

type AccumulatorStream struct {
	toks []Token
}

var _ WriteStream = &AccumulatorStream{}

func NewAccumulatorStream() *AccumulatorStream {
	return &AccumulatorStream{}
}

func (w *AccumulatorStream) Put(tok Token) {
	w.toks = append(w.toks, tok)
}

func (w *AccumulatorStream) GetTokens() []Token {
	return w.toks
}

// CountingStream records the shape of the values written to it without
// keeping them.  Elements of a top level array or object are counted by kind.
type CountingStream struct {
	depth int

	// Values seen at depth 1 (keys are not counted)
	Objects int
	Arrays  int
	Scalars int

	// Number of complete top level values
	Values int
}

var _ WriteStream = &CountingStream{}

func (c *CountingStream) Put(tok Token) {
	switch x := tok.(type) {
	case *StartObject:
		if c.depth == 1 {
			c.Objects++
		}
		c.depth++
	case *StartArray:
		if c.depth == 1 {
			c.Arrays++
		}
		c.depth++
	case *EndObject, *EndArray:
		c.depth--
		if c.depth == 0 {
			c.Values++
		}
	case *Scalar:
		if x.IsKey() {
			return
		}
		switch c.depth {
		case 0:
			c.Values++
		case 1:
			c.Scalars++
		}
	}
}
