// Package verify checks that a converted graph document has the expected
// shape: its arrays can be located, their leading objects carry the required
// fields, and sampled links only refer to sampled nodes.
package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/arnodel/jsonsample/extract"
	"github.com/arnodel/jsonsample/sample"
)

// A Rule requires every checked object of Array to have a value at Path, a
// JSONPath expression evaluated against the object.
type Rule struct {
	Array string
	Path  string
}

// DefaultRules returns the rules for a node-link document laid out as cfg
// describes.
func DefaultRules(cfg sample.Config) []Rule {
	return []Rule{
		{Array: cfg.NodesField, Path: fieldPath(cfg.IDField)},
		{Array: cfg.LinksField, Path: fieldPath(cfg.SourceField)},
		{Array: cfg.LinksField, Path: fieldPath(cfg.TargetField)},
	}
}

// fieldPath is the JSONPath of a member of the root object, quoted when the
// name is not a plain identifier.
func fieldPath(name string) string {
	return jp.R().C(name).String()
}

// An ArrayReport describes the objects checked in one array.
type ArrayReport struct {
	Located  bool
	Found    int
	Complete bool // Found reached the limit

	// Number of objects failing each rule, by path
	Missing map[string]int
}

// A Report is the outcome of a verification.
type Report struct {
	Arrays map[string]*ArrayReport

	// Links among the checked ones with an endpoint outside the checked nodes
	Dangling int
}

// OK reports whether every array was located and no check failed.
func (r *Report) OK() bool {
	if r.Dangling > 0 {
		return false
	}
	for _, a := range r.Arrays {
		if !a.Located {
			return false
		}
		for _, n := range a.Missing {
			if n > 0 {
				return false
			}
		}
	}
	return true
}

// WriteTo writes a human readable summary of the report.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var n int64
	printf := func(format string, args ...any) error {
		m, err := fmt.Fprintf(w, format, args...)
		n += int64(m)
		return err
	}
	names := make([]string, 0, len(r.Arrays))
	for name := range r.Arrays {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a := r.Arrays[name]
		if !a.Located {
			if err := printf("%s: not found\n", name); err != nil {
				return n, err
			}
			continue
		}
		if err := printf("%s: %d objects checked\n", name, a.Found); err != nil {
			return n, err
		}
		paths := make([]string, 0, len(a.Missing))
		for path := range a.Missing {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			if err := printf("  %s missing in %d\n", path, a.Missing[path]); err != nil {
				return n, err
			}
		}
	}
	if err := printf("dangling links: %d\n", r.Dangling); err != nil {
		return n, err
	}
	return n, nil
}

// A Verifier checks the first Limit objects of each array named by its rules.
type Verifier struct {
	Limit  int
	Rules  []Rule
	Fields sample.Config // layout used to find dangling links
	Limits extract.Limits
	Logger *slog.Logger
}

type compiledRule struct {
	path string
	expr jp.Expr
}

// Verify reads the document once per array.  Arrays that cannot be located
// are reported, not returned as errors.
func (v *Verifier) Verify(ctx context.Context, open sample.Opener) (*Report, error) {
	logger := v.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	rules, arrays, err := v.compile()
	if err != nil {
		return nil, err
	}
	report := &Report{Arrays: make(map[string]*ArrayReport, len(arrays))}
	objects := make(map[string][][]byte, len(arrays))
	for _, name := range arrays {
		objs, ar, err := v.checkArray(ctx, open, name, rules[name], logger)
		if err != nil {
			return nil, err
		}
		report.Arrays[name] = ar
		objects[name] = objs
	}

	nodes, links := objects[v.Fields.NodesField], objects[v.Fields.LinksField]
	if report.Arrays[v.Fields.NodesField].Located && len(links) > 0 {
		ids, _ := sample.NodeIDs(nodes, v.Fields.IDField)
		cfg := v.Fields
		cfg.MaxLinks = len(links)
		report.Dangling = len(links) - len(sample.FilterLinks(ids, links, cfg))
	}
	logger.Info("verification finished", "ok", report.OK(), "dangling", report.Dangling)
	return report, nil
}

// compile parses the rule paths and lists the arrays to check, which always
// include the nodes and links arrays.
func (v *Verifier) compile() (map[string][]compiledRule, []string, error) {
	rules := map[string][]compiledRule{}
	arrays := []string{v.Fields.NodesField, v.Fields.LinksField}
	for _, r := range v.Rules {
		x, err := jp.ParseString(r.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid jsonpath '%s': %w", r.Path, err)
		}
		rules[r.Array] = append(rules[r.Array], compiledRule{path: r.Path, expr: x})
		if !slices.Contains(arrays, r.Array) {
			arrays = append(arrays, r.Array)
		}
	}
	return rules, arrays, nil
}

func (v *Verifier) checkArray(ctx context.Context, open sample.Opener, name string, rules []compiledRule, logger *slog.Logger) ([][]byte, *ArrayReport, error) {
	src, err := open()
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	limits := v.Limits
	if name != v.Fields.NodesField {
		// Only the nodes are expected near the start of the document.
		limits.SearchLimit = extract.NoSearchLimit
	}
	e := &extract.Extractor{Field: name, MaxObjects: v.Limit, Limits: limits, Logger: logger}
	res, err := e.Extract(ctx, src)
	switch {
	case err == nil:
	case errors.Is(err, extract.ErrNeedMoreData), errors.Is(err, extract.ErrUnexpectedLayout):
		logger.Warn("array not found", "field", name, "error", err)
		return nil, &ArrayReport{Missing: map[string]int{}}, nil
	case errors.Is(err, extract.ErrBufferLimit):
		logger.Warn("checking fewer objects", "field", name, "objects", res.ObjectsFound)
	default:
		return nil, nil, fmt.Errorf("reading %s: %w", name, err)
	}
	objs, err := extract.Parse(res)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", name, err)
	}

	ar := &ArrayReport{
		Located:  true,
		Found:    len(objs),
		Complete: res.Complete,
		Missing:  make(map[string]int, len(rules)),
	}
	for _, r := range rules {
		ar.Missing[r.path] = 0
	}
	for _, obj := range objs {
		data, err := oj.Parse(obj)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", name, err)
		}
		for _, r := range rules {
			if len(r.expr.Get(data)) == 0 {
				ar.Missing[r.path]++
			}
		}
	}
	return objs, ar, nil
}
