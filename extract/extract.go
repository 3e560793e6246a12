package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// An Extractor reads a source until it holds the first MaxObjects objects
// of the array Field, then stops.  The caller owns the source and is free to
// close it as soon as Extract returns.
type Extractor struct {
	Field      string
	MaxObjects int
	Limits

	// Logger receives progress at debug level and limit events at warn
	// level.  Nil discards.
	Logger *slog.Logger
}

// Extract feeds chunks from r to a Scanner until the result is Complete, the
// array is closed or r is exhausted.
//
// It returns ErrNeedMoreData if r ends before the array is located,
// ErrUnexpectedLayout if more than SearchLimit bytes are read first, and
// ErrBufferLimit (with the partial result) if the buffer limit is reached.
// Read failures abort with a *StreamError and an empty result.  Running out
// of input after the array is located is not an error: the result is then
// simply not Complete.
func (e *Extractor) Extract(ctx context.Context, r io.Reader) (Result, error) {
	s, err := NewScanner(e.Field, e.MaxObjects)
	if err != nil {
		return Result{}, err
	}
	limits := e.Limits.withDefaults()
	logger := e.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("field", e.Field)
	chunks := newChunkReader(r, limits.ChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		data, readErr := chunks.next()
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			logger.Debug("read failed", "error", readErr)
			return Result{}, readErr
		}
		s.Write(data)
		if s.Done() {
			res := s.Result()
			logger.Debug("extraction finished",
				"objects", res.ObjectsFound,
				"complete", res.Complete,
				"buffered", s.Len())
			return res, nil
		}
		if readErr != nil {
			res := s.Result()
			if !res.Located() {
				return res, fmt.Errorf("%w: input ended before array %q", ErrNeedMoreData, e.Field)
			}
			logger.Debug("input exhausted", "objects", res.ObjectsFound)
			return res, nil
		}
		if !s.Located() && limits.searchExceeded(chunks.offset) {
			logger.Warn("search limit exceeded", "limit", limits.SearchLimit)
			return s.Result(), fmt.Errorf("%w: %d bytes", ErrUnexpectedLayout, limits.SearchLimit)
		}
		if s.Len() > limits.MaxBuffer {
			res := s.Result()
			logger.Warn("buffer limit exceeded", "limit", limits.MaxBuffer, "objects", res.ObjectsFound)
			return res, fmt.Errorf("%w: %d bytes", ErrBufferLimit, limits.MaxBuffer)
		}
		logger.Debug("chunk scanned", "buffered", s.Len(), "located", s.Located())
	}
}
