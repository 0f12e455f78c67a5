package mock

import (
	"net/http"
	"strings"

	"github.com/arcticfox1919/gio"
)

// route tree, one per HTTP method. Nodes represent path segments of three
// kinds with a fixed specificity ordering on lookup: static literal first,
// then named parameter, then catch-all. Registration is expected to complete
// before concurrent lookups begin; lookups are read-only and safe to run in
// parallel with each other.

type nodeKind int

const (
	nodeStatic nodeKind = iota
	nodeParam
	nodeCatchAll
)

type node struct {
	kind    nodeKind
	literal string // static segment text
	param   string // parameter name for param/catch-all nodes

	static   map[string]*node
	paramed  *node // at most one named-parameter child
	catchAll *node // at most one catch-all child, always a leaf

	leaf *leaf
}

type leaf struct {
	handler    http.Handler
	middleware []func(http.Handler) http.Handler
	pattern    string
	derived    bool // auto-registered, an explicit registration may replace it
}

// Match is the result of a successful lookup.
type Match struct {
	Handler    http.Handler
	Middleware []func(http.Handler) http.Handler
	Params     map[string]string
	Pattern    string
}

type tree struct {
	root node
}

// add inserts pattern with its leaf payload, extending the tree as needed.
// Incompatible nodes at the same position fail fast with a ConfigError.
func (t *tree) add(pattern string, lf *leaf) error {
	segments, err := splitPattern(pattern)
	if err != nil {
		return err
	}

	cur := &t.root
	for i, seg := range segments {
		switch {
		case strings.HasPrefix(seg, ":"):
			name := seg[1:]
			if name == "" {
				return gio.ConfigErrorf("empty parameter name in %q", pattern)
			}
			if cur.paramed != nil && cur.paramed.param != name {
				return gio.ConfigErrorf("conflicting parameter %q vs %q in %q",
					name, cur.paramed.param, pattern)
			}
			if cur.paramed == nil {
				cur.paramed = &node{kind: nodeParam, param: name}
			}
			cur = cur.paramed

		case strings.HasPrefix(seg, "*"):
			name := seg[1:]
			if name == "" {
				return gio.ConfigErrorf("empty catch-all name in %q", pattern)
			}
			if i != len(segments)-1 {
				return gio.ConfigErrorf("catch-all must be the last segment in %q", pattern)
			}
			if cur.catchAll != nil && cur.catchAll.param != name {
				return gio.ConfigErrorf("conflicting catch-all %q vs %q in %q",
					name, cur.catchAll.param, pattern)
			}
			if cur.catchAll == nil {
				cur.catchAll = &node{kind: nodeCatchAll, param: name}
			}
			cur = cur.catchAll

		default:
			if cur.static == nil {
				cur.static = map[string]*node{}
			}
			child, ok := cur.static[seg]
			if !ok {
				child = &node{kind: nodeStatic, literal: seg}
				cur.static[seg] = child
			}
			cur = child
		}
	}

	if cur.leaf != nil && !cur.leaf.derived && lf.derived {
		return nil // explicit registration already there, keep it
	}
	if cur.leaf != nil && !cur.leaf.derived && !lf.derived {
		return gio.ConfigErrorf("route already registered for %q", cur.leaf.pattern)
	}
	cur.leaf = lf
	return nil
}

// lookup matches path with a single linear descent and a three-way branch at
// each level. No backtracking: once a static child matched, a parameter
// sibling is never retried for deeper segments.
func (t *tree) lookup(path string) (*Match, bool) {
	segments := splitPath(path)

	cur := &t.root
	var params map[string]string
	bind := func(name, val string) {
		if params == nil {
			params = map[string]string{}
		}
		params[name] = val
	}

	for i, seg := range segments {
		if child, ok := cur.static[seg]; ok {
			cur = child
			continue
		}
		if cur.paramed != nil {
			bind(cur.paramed.param, seg)
			cur = cur.paramed
			continue
		}
		if cur.catchAll != nil {
			bind(cur.catchAll.param, strings.Join(segments[i:], "/"))
			cur = cur.catchAll
			break
		}
		return nil, false
	}

	if cur.leaf == nil {
		return nil, false
	}
	return &Match{
		Handler:    cur.leaf.handler,
		Middleware: cur.leaf.middleware,
		Params:     params,
		Pattern:    cur.leaf.pattern,
	}, true
}

func splitPattern(pattern string) ([]string, error) {
	if pattern == "" {
		return nil, gio.ConfigErrorf("empty path pattern")
	}
	if !strings.HasPrefix(pattern, "/") {
		return nil, gio.ConfigErrorf("pattern %q must start with /", pattern)
	}
	return splitPath(pattern), nil
}

func splitPath(path string) []string {
	res := []string{}
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			res = append(res, seg)
		}
	}
	return res
}
