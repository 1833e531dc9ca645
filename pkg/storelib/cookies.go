package storelib

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Cookie represents an HTTP cookie with the metadata the flow cares about.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Expires  time.Time
	Secure   bool
	HttpOnly bool
}

func (c *Cookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && c.Expires.Before(now)
}

// Jar is the transport's persistent cookie store. Entries are keyed by
// (name, domain, path) and kept in set order, most recent last.
//
// Value deliberately flattens the store to a by-name lookup: the most
// recently set cookie with that name wins, whatever its domain. The whole
// flow talks to a single gateway host in practice, and the upstream client
// behaves the same way, so distinct same-named cookies from another domain
// would shadow each other. Use ValueForDomain when that matters.
//
// The jar is not safe for concurrent use; each login session owns its own
// transport and jar.
type Jar struct {
	cookies []*Cookie
}

// NewJar returns an empty cookie store.
func NewJar() *Jar {
	return &Jar{}
}

// Set stores a cookie, replacing any existing entry with the same
// (name, domain, path) key. The entry moves to the most-recent position.
func (j *Jar) Set(c Cookie) {
	if c.Path == "" {
		c.Path = "/"
	}
	for i, x := range j.cookies {
		if x.Name == c.Name && x.Domain == c.Domain && x.Path == c.Path {
			j.cookies = append(j.cookies[:i], j.cookies[i+1:]...)
			break
		}
	}
	j.cookies = append(j.cookies, &c)
}

// Value returns the value of the most recently set cookie with the given
// name, across all domains. Returns "" if no such cookie exists.
func (j *Jar) Value(name string) string {
	for i := len(j.cookies) - 1; i >= 0; i-- {
		if j.cookies[i].Name == name {
			return j.cookies[i].Value
		}
	}
	return ""
}

// ValueForDomain returns the value of the most recently set cookie with the
// given name whose domain matches the given host.
func (j *Jar) ValueForDomain(name, host string) string {
	for i := len(j.cookies) - 1; i >= 0; i-- {
		c := j.cookies[i]
		if c.Name == name && domainMatch(c.Domain, host) {
			return c.Value
		}
	}
	return ""
}

// Has reports whether an unexpired cookie with the given name exists.
func (j *Jar) Has(name string) bool {
	now := time.Now()
	for i := len(j.cookies) - 1; i >= 0; i-- {
		if j.cookies[i].Name == name && !j.cookies[i].expired(now) {
			return true
		}
	}
	return false
}

// All returns a snapshot of every cookie in set order.
func (j *Jar) All() []Cookie {
	out := make([]Cookie, len(j.cookies))
	for i, c := range j.cookies {
		out[i] = *c
	}
	return out
}

// RequestHeader builds the Cookie header value for a request to u,
// including every unexpired cookie whose domain and path match.
func (j *Jar) RequestHeader(u *url.URL) string {
	now := time.Now()
	var sb strings.Builder
	for _, c := range j.cookies {
		if c.expired(now) {
			continue
		}
		if !domainMatch(c.Domain, u.Hostname()) {
			continue
		}
		if !pathMatch(c.Path, u.Path) {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(c.Name)
		sb.WriteByte('=')
		sb.WriteString(c.Value)
	}
	return sb.String()
}

// UpdateFromResponse merges every Set-Cookie entry of a response into the
// store. Cookies without an explicit domain default to the request host.
func (j *Jar) UpdateFromResponse(resp *http.Response, reqURL *url.URL) {
	for _, sc := range resp.Cookies() {
		c := Cookie{
			Name:     sc.Name,
			Value:    sc.Value,
			Domain:   strings.TrimPrefix(sc.Domain, "."),
			Path:     sc.Path,
			Expires:  sc.Expires,
			Secure:   sc.Secure,
			HttpOnly: sc.HttpOnly,
		}
		if c.Domain == "" {
			c.Domain = reqURL.Hostname()
		}
		if sc.MaxAge > 0 {
			c.Expires = time.Now().Add(time.Duration(sc.MaxAge) * time.Second)
		} else if sc.MaxAge < 0 {
			c.Expires = time.Unix(1, 0)
		}
		j.Set(c)
	}
}

// domainMatch implements the cookie domain-match rule: an empty stored
// domain matches everything (session-injected cookies), otherwise the host
// must equal the domain or be a subdomain of it.
func domainMatch(domain, host string) bool {
	if domain == "" || domain == host {
		return true
	}
	return strings.HasSuffix(host, "."+domain)
}

func pathMatch(cookiePath, reqPath string) bool {
	if cookiePath == "" || cookiePath == "/" {
		return true
	}
	if reqPath == "" {
		reqPath = "/"
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	return len(reqPath) == len(cookiePath) ||
		strings.HasSuffix(cookiePath, "/") ||
		reqPath[len(cookiePath)] == '/'
}
