package extract

// The boundary scanner is a small finite-state machine driven one byte at a
// time.  Bytes are first mapped to a class, then the transition table gives
// the next state and an action.  Counters the table cannot express (brace
// depth, nesting of non-object elements, where to go after a string) live in
// the machine and are updated by the actions.

type state uint8

const (
	searching state = iota // the array opening has not been located
	inArray                // between elements of the array
	inObject               // inside an element object, depth >= 1
	inString               // inside a string literal
	inEscape               // just after a backslash inside a string literal
	closed                 // the array has been closed
	numStates
)

var stateNames = [numStates]string{"searching", "inArray", "inObject", "inString", "inEscape", "closed"}

func (s state) String() string {
	return stateNames[s]
}

type class uint8

const (
	other class = iota
	quote
	backslash
	openBrace
	closeBrace
	openBracket
	closeBracket
	numClasses
)

var classOf [256]class

type action uint8

const (
	none        action = iota
	enterString        // remember the state to return to
	leaveString        // return to the remembered state
	open               // '{'
	shut               // '}' inside an object
	nest               // '[' between elements
	unnest             // ']' between elements
)

type transition struct {
	next state
	act  action
}

// Bytes not listed leave the state unchanged.  In particular a '}' between
// elements is ignored so depth never goes negative, and brackets inside an
// object do not matter as only braces delimit it.
var rules = []struct {
	from state
	on   class
	to   state
	act  action
}{
	{inArray, quote, inString, enterString},
	{inArray, openBrace, inObject, open},
	{inArray, openBracket, inArray, nest},
	{inArray, closeBracket, inArray, unnest},

	{inObject, quote, inString, enterString},
	{inObject, openBrace, inObject, open},
	{inObject, closeBrace, inObject, shut},

	{inString, backslash, inEscape, none},
	{inString, quote, inString, leaveString},
}

var transitions [numStates][numClasses]transition

func init() {
	classOf['"'] = quote
	classOf['\\'] = backslash
	classOf['{'] = openBrace
	classOf['}'] = closeBrace
	classOf['['] = openBracket
	classOf[']'] = closeBracket

	for s := state(0); s < numStates; s++ {
		for c := class(0); c < numClasses; c++ {
			transitions[s][c] = transition{next: s}
		}
	}
	for _, r := range rules {
		transitions[r.from][r.on] = transition{next: r.to, act: r.act}
	}
	// An escape consumes exactly one byte, whatever it is.
	for c := class(0); c < numClasses; c++ {
		transitions[inEscape][c] = transition{next: inString}
	}
}

type event uint8

const (
	noEvent   event = iota
	started         // the byte opened an element object
	completed       // the byte closed an element object
)

type machine struct {
	state state

	// Unmatched '{' in the current element object
	depth int

	// Unmatched '[' between elements, i.e. inside a non-object element.
	// Objects found in there are not elements of the array.
	nested int

	// State to resume after the current string literal
	ret state
}

func (m *machine) step(b byte) event {
	t := transitions[m.state][classOf[b]]
	ev := noEvent
	switch t.act {
	case enterString:
		m.ret = m.state
	case leaveString:
		t.next = m.ret
	case open:
		if m.depth == 0 && m.nested == 0 {
			ev = started
		}
		m.depth++
	case shut:
		m.depth--
		if m.depth == 0 {
			t.next = inArray
			if m.nested == 0 {
				ev = completed
			}
		}
	case nest:
		m.nested++
	case unnest:
		if m.nested == 0 {
			t.next = closed
		} else {
			m.nested--
		}
	}
	m.state = t.next
	return ev
}

// isSeparator reports whether b may follow an element before the next one.
func isSeparator(b byte) bool {
	return b == ',' || b == ' ' || b == '\n' || b == '\t' || b == '\r'
}
