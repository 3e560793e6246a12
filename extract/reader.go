package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// An ObjectReader returns the objects of a named array one at a time,
// reading its source as needed.  Unlike a Scanner it does not keep what it
// has returned: once the array is located, only the object being scanned is
// buffered, so arrays of any length can be traversed.  While the array is
// searched for, only the bytes that may still hold the key are buffered.
type ObjectReader struct {
	field  string
	chunks *chunkReader
	limits Limits

	loc      arrayLocator
	located  bool
	buf      []byte
	m        machine
	pos      int
	objStart int

	srcErr error // io.EOF or the *StreamError from the source
	err    error // sticky error returned by Next
}

func NewObjectReader(r io.Reader, field string, limits Limits) *ObjectReader {
	limits = limits.withDefaults()
	return &ObjectReader{
		field:  field,
		chunks: newChunkReader(r, limits.ChunkSize),
		limits: limits,
		loc:    newArrayLocator(field),
	}
}

// Next returns the next object of the array.  The returned slice belongs to
// the caller.  It returns io.EOF once the array is closed, and
// ErrNeedMoreData if the input ends before that.
func (o *ObjectReader) Next() ([]byte, error) {
	for o.err == nil {
		if !o.located && o.loc.locate(o.buf) {
			o.located = true
			o.pos = o.loc.arrayStart() - o.loc.base + 1
			o.m.state = inArray
		}
		if o.located {
			if obj := o.scanBuffered(); obj != nil {
				return obj, nil
			}
			if o.m.state == closed {
				o.err = io.EOF
				break
			}
		}
		if o.srcErr != nil {
			o.err = o.endOfInput()
			break
		}
		o.compact()
		if !o.located && o.limits.searchExceeded(o.chunks.offset) {
			o.err = fmt.Errorf("%w: %d bytes", ErrUnexpectedLayout, o.limits.SearchLimit)
			break
		}
		if len(o.buf) > o.limits.MaxBuffer {
			o.err = fmt.Errorf("%w: %d bytes buffered", ErrBufferLimit, o.limits.MaxBuffer)
			break
		}
		data, err := o.chunks.next()
		o.buf = append(o.buf, data...)
		o.srcErr = err
	}
	return nil, o.err
}

// Offset returns the number of bytes read from the source so far.
func (o *ObjectReader) Offset() int64 {
	return o.chunks.offset
}

func (o *ObjectReader) endOfInput() error {
	if !errors.Is(o.srcErr, io.EOF) {
		return o.srcErr
	}
	if !o.located {
		return fmt.Errorf("%w: input ended before array %q", ErrNeedMoreData, o.field)
	}
	return fmt.Errorf("%w: input ended inside array %q", ErrNeedMoreData, o.field)
}

func (o *ObjectReader) scanBuffered() []byte {
	for o.pos < len(o.buf) && o.m.state != closed {
		ev := o.m.step(o.buf[o.pos])
		o.pos++
		switch ev {
		case started:
			o.objStart = o.pos - 1
		case completed:
			return bytes.Clone(o.buf[o.objStart:o.pos])
		}
	}
	return nil
}

// compact drops the bytes that can no longer hold the key, or once the
// array is located, the scanned bytes that are not part of a pending object.
func (o *ObjectReader) compact() {
	var drop int
	switch {
	case !o.located:
		drop = o.loc.release()
	case o.m.depth > 0 && o.m.nested == 0:
		drop = o.objStart
	default:
		drop = o.pos
	}
	if drop == 0 {
		return
	}
	n := copy(o.buf, o.buf[drop:])
	o.buf = o.buf[:n]
	o.pos -= drop
	o.objStart -= drop
}
