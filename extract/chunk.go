package extract

import (
	"io"
)

const (
	maxConsecutiveEmptyReads = 100

	DefaultChunkSize   = 8192
	DefaultSearchLimit = 50 << 10
	DefaultMaxBuffer   = 16 << 20

	// NoSearchLimit lets the array lie any distance into the input.
	NoSearchLimit = -1
)

// Limits bound the memory used while extracting.  Zero values select the
// defaults.
type Limits struct {
	// Bytes requested from the reader at a time
	ChunkSize int

	// Bytes read before the array opening must have been found.  Negative
	// for no limit.  Memory use does not depend on it: only the bytes that
	// may still hold the key are kept during the search.
	SearchLimit int

	// Bytes buffered in total (for an ObjectReader, for a single object)
	MaxBuffer int
}

func (l Limits) withDefaults() Limits {
	if l.ChunkSize <= 0 {
		l.ChunkSize = DefaultChunkSize
	}
	if l.SearchLimit == 0 {
		l.SearchLimit = DefaultSearchLimit
	}
	if l.MaxBuffer <= 0 {
		l.MaxBuffer = DefaultMaxBuffer
	}
	return l
}

// searchExceeded reports whether read bytes are too many to still be looking
// for the array.
func (l Limits) searchExceeded(read int64) bool {
	return l.SearchLimit >= 0 && read > int64(l.SearchLimit)
}

// chunkReader reads its source one chunk at a time.
type chunkReader struct {
	r      io.Reader
	chunk  []byte
	offset int64
}

func newChunkReader(r io.Reader, size int) *chunkReader {
	return &chunkReader{r: r, chunk: make([]byte, size)}
}

// next returns the bytes read, valid until the following call, and io.EOF at
// the end of input.  Other failures are returned as a *StreamError.
func (c *chunkReader) next() ([]byte, error) {
	for i := maxConsecutiveEmptyReads; i > 0; i-- {
		n, err := c.r.Read(c.chunk)
		c.offset += int64(n)
		if err == io.EOF {
			return c.chunk[:n], io.EOF
		}
		if err != nil {
			return nil, &StreamError{Offset: c.offset, Err: err}
		}
		if n > 0 {
			return c.chunk[:n], nil
		}
	}
	return nil, &StreamError{Offset: c.offset, Err: io.ErrNoProgress}
}
