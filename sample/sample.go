// Package sample projects a node-link graph document onto a small graph made
// of its first nodes and the links among them.  Neither array is read beyond
// what the sample needs.
package sample

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/arnodel/jsonsample/extract"
)

// Config names the arrays and fields of the graph document and caps the size
// of the sample.
type Config struct {
	NodesField  string
	LinksField  string
	MaxNodes    int
	MaxLinks    int
	IDField     string
	SourceField string
	TargetField string
}

// DefaultConfig returns the layout of a d3-style node-link document, capped at
// 100 nodes and 150 links.
func DefaultConfig() Config {
	return Config{
		NodesField:  "nodes",
		LinksField:  "links",
		MaxNodes:    100,
		MaxLinks:    150,
		IDField:     "id",
		SourceField: "source",
		TargetField: "target",
	}
}

// An Opener returns a fresh reader over the document each time it is called.
// Sampling reads the document twice.
type Opener func() (io.ReadCloser, error)

// FileOpener opens the file at path.
func FileOpener(path string) Opener {
	return func() (io.ReadCloser, error) {
		return os.Open(path)
	}
}

// A Graph is a sampled graph.  Nodes and Links hold raw JSON objects.
type Graph struct {
	Nodes [][]byte
	Links [][]byte

	// Nodes whose id could not be read.  Links cannot refer to them.
	NodesWithoutID int
}

// WriteTo writes the graph as a compact {"nodes":[...],"links":[...]} document.
func (g *Graph) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"nodes":`)
	writeArray(&buf, g.Nodes)
	buf.WriteString(`,"links":`)
	writeArray(&buf, g.Links)
	buf.WriteByte('}')
	return buf.WriteTo(w)
}

func writeArray(buf *bytes.Buffer, items [][]byte) {
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(item)
	}
	buf.WriteByte(']')
}

// A Sampler builds a Graph from a document.
type Sampler struct {
	Config
	Limits extract.Limits
	Logger *slog.Logger
}

// Sample reads the first MaxNodes nodes, then streams the links array and
// keeps the links between sampled nodes until MaxLinks are kept.  The search
// limit applies to the nodes array only: the links array may lie anywhere.
//
// Hitting the buffer limit while reading nodes gives a smaller sample, as does
// a links array that is missing or cut short.  Other failures are returned.
func (s *Sampler) Sample(ctx context.Context, open Opener) (*Graph, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	nodes, err := s.sampleNodes(ctx, open, logger)
	if err != nil {
		return nil, err
	}
	ids, missing := NodeIDs(nodes, s.IDField)
	if missing > 0 {
		logger.Warn("nodes without id", "count", missing, "id_field", s.IDField)
	}
	g := &Graph{Nodes: nodes, NodesWithoutID: missing}
	if len(ids) == 0 || s.MaxLinks < 1 {
		return g, nil
	}
	g.Links, err = s.sampleLinks(ctx, open, ids, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("sampled graph", "nodes", len(g.Nodes), "links", len(g.Links))
	return g, nil
}

func (s *Sampler) sampleNodes(ctx context.Context, open Opener, logger *slog.Logger) ([][]byte, error) {
	src, err := open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	e := &extract.Extractor{
		Field:      s.NodesField,
		MaxObjects: s.MaxNodes,
		Limits:     s.Limits,
		Logger:     logger,
	}
	res, err := e.Extract(ctx, src)
	if err != nil {
		if !errors.Is(err, extract.ErrBufferLimit) {
			return nil, fmt.Errorf("reading %s: %w", s.NodesField, err)
		}
		logger.Warn("node sample truncated", "nodes", res.ObjectsFound, "error", err)
	}
	nodes, err := extract.Parse(res)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.NodesField, err)
	}
	return nodes, nil
}

func (s *Sampler) sampleLinks(ctx context.Context, open Opener, ids IDSet, logger *slog.Logger) ([][]byte, error) {
	src, err := open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// The links usually follow the whole nodes array.
	limits := s.Limits
	limits.SearchLimit = extract.NoSearchLimit

	f := newLinkFilter(ids, s.Config)
	r := extract.NewObjectReader(src, s.LinksField, limits)
	var links [][]byte
	seen := 0
	for len(links) < s.MaxLinks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		link, err := r.Next()
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return links, nil
		case errors.Is(err, extract.ErrNeedMoreData):
			logger.Warn("links array missing or truncated", "field", s.LinksField, "kept", len(links))
			return links, nil
		default:
			return nil, fmt.Errorf("reading %s: %w", s.LinksField, err)
		}
		seen++
		if f.keep(link) {
			links = append(links, link)
		}
	}
	logger.Debug("link cap reached", "kept", len(links), "scanned", seen, "read", r.Offset())
	return links, nil
}
