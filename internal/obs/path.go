package obs

import "strings"

// resource collections whose second path segment is a numeric row id.
var idCollections = map[string]struct{}{
	"accounts":     {},
	"assets":       {},
	"goals":        {},
	"notices":      {},
	"transactions": {},
}

// CanonicalPath collapses row identifiers in metric labels to keep label
// cardinality bounded: /api/v1/accounts/42 -> /api/v1/accounts/:id.
func CanonicalPath(path string) string {
	if path == "" {
		return "/"
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	const prefix = "/api/v1/"
	if !strings.HasPrefix(path, prefix) {
		return path
	}
	rest := strings.Split(strings.TrimPrefix(path, prefix), "/")
	if len(rest) < 2 {
		return path
	}
	if _, ok := idCollections[rest[0]]; !ok {
		return path
	}
	if rest[1] == "" {
		return path
	}
	rest[1] = ":id"
	return prefix + strings.Join(rest, "/")
}
