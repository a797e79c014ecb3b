package internal

import (
	"net/url"
	"strings"
)

const pathSep = "/"

// Path is an encoded cursor path: every key escaped, joined by "/". Depth
// is kept next to the encoding so the root path and a path made of one
// empty key stay distinct.
type Path struct {
	enc   string
	depth int
}

func EncodePath(keys []string) Path {
	escaped := make([]string, len(keys))
	for i, k := range keys {
		escaped[i] = url.PathEscape(k)
	}

	return Path{enc: strings.Join(escaped, pathSep), depth: len(keys)}
}

func (p Path) String() string {
	return p.enc
}

func (p Path) Depth() int {
	return p.depth
}

// Keys decodes the path back into its keys.
func (p Path) Keys() []string {
	if p.depth == 0 {
		return nil
	}

	parts := strings.Split(p.enc, pathSep)
	for i, part := range parts {
		if k, err := url.PathUnescape(part); err == nil {
			parts[i] = k
		}
	}

	return parts
}

// Overlaps reports whether a change at the given path affects a read of p:
// the change happened at p, below p, or replaced one of p's ancestors.
func (p Path) Overlaps(change []string) bool {
	n := min(p.depth, len(change))
	return p.prefix(n) == EncodePath(change[:n]).enc
}

func (p Path) prefix(n int) string {
	if n == 0 {
		return ""
	}
	if n == p.depth {
		return p.enc
	}

	parts := strings.SplitN(p.enc, pathSep, n+1)
	return strings.Join(parts[:n], pathSep)
}
