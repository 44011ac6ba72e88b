package cache

import (
	"fmt"
	"strings"
)

// Key builds a cache key by joining parts with ":" in order. Parts are
// formatted with fmt.Sprint, so ids, paths and integers all work.
//
// A part containing ":" makes the key ambiguous with a differently split
// sequence. Accepted: real parts in this codebase are uuids, resource names
// and query strings, none of which carry the delimiter.
func Key(parts ...any) string {
	ss := make([]string, len(parts))
	for i, p := range parts {
		ss[i] = fmt.Sprint(p)
	}
	return strings.Join(ss, ":")
}
