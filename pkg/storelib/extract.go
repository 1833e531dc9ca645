package storelib

import "strings"

// AppResource is one published application: Name is the user-facing key,
// LaunchRef the opaque server-assigned reference resolved by the descriptor
// fetch.
type AppResource struct {
	Name      string
	LaunchRef string
}

// AuthMethod is one authentication method offered by the catalog.
type AuthMethod struct {
	Name string
	URL  string
}

// AppByName looks up a published application by its user-facing name,
// case-insensitively.
func AppByName(apps []AppResource, name string) (AppResource, bool) {
	for _, app := range apps {
		if strings.EqualFold(app.Name, name) {
			return app, true
		}
	}
	return AppResource{}, false
}

// The extractors below deliberately use targeted text scanning instead of a
// structured-document parser. The response bodies are HTML/XML/JSON-ish
// depending on gateway version, and the few fragments the flow needs are
// stable across them; a real parser would add a dependency without making
// the fragile parts less fragile. They are pure functions: an unmatched
// grammar yields an empty result, never an error.

// ExtractApplications scans a resource-list body for repeated
// launchurl/name key pairs, in that fixed key order, and collects them in
// first-seen order. A later entry with the same name overwrites the earlier
// one's reference. A body carrying the unauthorized marker yields nothing,
// whatever else it contains.
func ExtractApplications(body string) []AppResource {
	if strings.Contains(body, UNAUTHORIZED_MARKER) {
		return nil
	}
	var (
		apps  []AppResource
		index = map[string]int{}
		pos   int
	)
	for {
		ref, next, ok := quotedAfter(body, "launchurl", pos)
		if !ok {
			break
		}
		name, next, ok := quotedAfter(body, "name", next)
		if !ok {
			break
		}
		pos = next
		if i, seen := index[name]; seen {
			apps[i].LaunchRef = ref
			continue
		}
		index[name] = len(apps)
		apps = append(apps, AppResource{Name: name, LaunchRef: ref})
	}
	return apps
}

// ExtractAuthMethods scans a body for repeated `method name=... url=...`
// fragments and collects them in first-seen order, duplicates by name
// overwriting.
func ExtractAuthMethods(body string) []AuthMethod {
	var (
		methods []AuthMethod
		index   = map[string]int{}
		pos     int
	)
	for {
		i := strings.Index(body[pos:], "method")
		if i < 0 {
			break
		}
		pos += i + len("method")
		name, next, ok := quotedAfter(body, "name=", pos)
		if !ok {
			break
		}
		u, next, ok := quotedAfter(body, "url=", next)
		if !ok {
			break
		}
		pos = next
		if j, seen := index[name]; seen {
			methods[j].URL = u
			continue
		}
		index[name] = len(methods)
		methods = append(methods, AuthMethod{Name: name, URL: u})
	}
	return methods
}

// ExtractRedirectTarget scans a single header value for a location="..."
// fragment. Absence yields "", not an error.
func ExtractRedirectTarget(header string) string {
	target, _, ok := quotedAfter(header, "location=", 0)
	if !ok {
		return ""
	}
	return target
}

// quotedAfter finds the first occurrence of key at or after pos, then
// returns the next single- or double-quoted string following it, along with
// the offset just past the closing quote. A quote right after the key that
// is itself followed by a separator is the key's own closing quote
// (JSON-style `"key":"val"`) and is stepped over before looking for the
// value.
func quotedAfter(s, key string, pos int) (val string, next int, ok bool) {
	if pos >= len(s) {
		return
	}
	i := strings.Index(s[pos:], key)
	if i < 0 {
		return
	}
	j := pos + i + len(key)
	if j+1 < len(s) && (s[j] == '"' || s[j] == '\'') && (s[j+1] == ':' || s[j+1] == '=') {
		j++
	}
	open := strings.IndexAny(s[j:], `'"`)
	if open < 0 {
		return
	}
	j += open
	quote := s[j]
	j++
	close_ := strings.IndexByte(s[j:], quote)
	if close_ < 0 {
		return
	}
	return s[j : j+close_], j + close_ + 1, true
}
