package storelib

import "net/http"

const (
	USER_AGENT_KEY   = "User-Agent"
	REFERER_KEY      = "Referer"
	ACCEPT_KEY       = "Accept"
	CONTENT_TYPE_KEY = "Content-Type"
)

// Headers is an ordered list of request headers. Order is preserved when
// applied, which keeps outgoing requests looking like the browser traffic
// they imitate.
type Headers []Header

// Get returns the index of the header with the given key.
// If the header is not found, the second return value is false.
func (h Headers) Get(key string) (index int, have bool) {
	for i, x := range h {
		if x.Key != key {
			continue
		}
		index = i
		have = true
		break
	}
	return
}

// Value returns the value of the header with the given key, or "".
func (h Headers) Value(key string) string {
	i, ok := h.Get(key)
	if !ok {
		return ""
	}
	return h[i].Value
}

// Update updates the header with the given key and value.
// If the header is not present, it is appended.
func (h *Headers) Update(key, value string) {
	i, ok := h.Get(key)
	if ok {
		(*h)[i] = Header{key, value}
		return
	}
	*h = append(*h, Header{key, value})
}

// Clone returns an independent copy of the header list.
func (h Headers) Clone() Headers {
	c := make(Headers, len(h))
	copy(c, h)
	return c
}

// Set sets the headers in the given http.Header.
func (h Headers) Set(header http.Header) {
	for _, x := range h {
		header.Set(x.Key, x.Value)
	}
}

// Header represents a key-value pair.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
