package restbind

import (
	"net/http"
)

// Headers is a multimap of HTTP headers. Unlike http.Header it remembers
// the order in which distinct names were added. Values of one name keep
// their order too. Names are matched case-insensitively; the spelling of
// the first occurrence is kept. The zero value is an empty Headers.
type Headers struct {
	entries []headerEntry
	index   map[string]int
}

type headerEntry struct {
	name   string
	values []string
}

// Add appends value to the values of name.
func (h *Headers) Add(name, value string) {
	key := http.CanonicalHeaderKey(name)
	if i, has := h.index[key]; has {
		h.entries[i].values = append(h.entries[i].values, value)
		return
	}
	if h.index == nil {
		h.index = make(map[string]int)
	}
	h.index[key] = len(h.entries)
	h.entries = append(h.entries, headerEntry{name: name, values: []string{value}})
}

// Set replaces all values of name keeping its position.
func (h *Headers) Set(name, value string) {
	key := http.CanonicalHeaderKey(name)
	if i, has := h.index[key]; has {
		h.entries[i].values = []string{value}
		return
	}
	h.Add(name, value)
}

// Values returns a copy of values of name.
func (h Headers) Values(name string) []string {
	i, has := h.index[http.CanonicalHeaderKey(name)]
	if !has {
		return nil
	}
	return append([]string(nil), h.entries[i].values...)
}

// Get returns the first value of name or "".
func (h Headers) Get(name string) string {
	i, has := h.index[http.CanonicalHeaderKey(name)]
	if !has {
		return ""
	}
	return h.entries[i].values[0]
}

func (h Headers) Has(name string) bool {
	_, has := h.index[http.CanonicalHeaderKey(name)]
	return has
}

// Names returns distinct names in insertion order.
func (h Headers) Names() []string {
	names := make([]string, 0, len(h.entries))
	for _, e := range h.entries {
		names = append(names, e.name)
	}
	return names
}

func (h Headers) Len() int {
	return len(h.entries)
}

// Clone returns a deep copy.
func (h Headers) Clone() Headers {
	c := Headers{
		entries: make([]headerEntry, len(h.entries)),
		index:   make(map[string]int, len(h.index)),
	}
	for i, e := range h.entries {
		c.entries[i] = headerEntry{name: e.name, values: append([]string(nil), e.values...)}
	}
	for k, v := range h.index {
		c.index[k] = v
	}
	return c
}

// HTTP converts headers to http.Header.
func (h Headers) HTTP() http.Header {
	header := make(http.Header, len(h.entries))
	for _, e := range h.entries {
		for _, v := range e.values {
			header.Add(e.name, v)
		}
	}
	return header
}
