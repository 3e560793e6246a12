package sample

import (
	"github.com/tidwall/gjson"
)

// An IDSet holds the textual ids of sampled nodes.
type IDSet map[string]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// NodeIDs collects the value of idField from each node.  The second result
// counts nodes with no usable id (missing, or an object or array).
func NodeIDs(nodes [][]byte, idField string) (IDSet, int) {
	path := gjson.Escape(idField)
	ids := make(IDSet, len(nodes))
	missing := 0
	for _, node := range nodes {
		id, ok := scalarText(gjson.GetBytes(node, path))
		if !ok {
			missing++
			continue
		}
		ids[id] = struct{}{}
	}
	return ids, missing
}

// FilterLinks returns the links whose two endpoints are both in ids, in their
// original order, keeping at most cfg.MaxLinks of them.
func FilterLinks(ids IDSet, links [][]byte, cfg Config) [][]byte {
	f := newLinkFilter(ids, cfg)
	var kept [][]byte
	for _, link := range links {
		if len(kept) >= cfg.MaxLinks {
			break
		}
		if f.keep(link) {
			kept = append(kept, link)
		}
	}
	return kept
}

type linkFilter struct {
	ids    IDSet
	source string
	target string
	id     string
}

func newLinkFilter(ids IDSet, cfg Config) *linkFilter {
	return &linkFilter{
		ids:    ids,
		source: gjson.Escape(cfg.SourceField),
		target: gjson.Escape(cfg.TargetField),
		id:     gjson.Escape(cfg.IDField),
	}
}

func (f *linkFilter) keep(link []byte) bool {
	src, ok := f.endpoint(gjson.GetBytes(link, f.source))
	if !ok || !f.ids.Has(src) {
		return false
	}
	dst, ok := f.endpoint(gjson.GetBytes(link, f.target))
	return ok && f.ids.Has(dst)
}

// endpoint resolves a link end, which is either a node id or a copy of the
// node itself.
func (f *linkFilter) endpoint(v gjson.Result) (string, bool) {
	if v.IsObject() {
		v = v.Get(f.id)
	}
	return scalarText(v)
}

// scalarText returns the text of a string, number or boolean.  Ids are
// compared by text, so 1 and "1" are the same id.
func scalarText(v gjson.Result) (string, bool) {
	switch v.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return v.String(), true
	default:
		return "", false
	}
}
