package cookies

import (
	"net/http"
	"sort"
	"strings"
	"sync"
)

// Document is an in-memory Jar that behaves like a browser's document.cookie:
// writes carry attributes, reads scan the rendered "a=1; b=2" string.
type Document struct {
	mu      sync.RWMutex
	cookies map[string]*http.Cookie
	order   []string
}

var _ Jar = (*Document)(nil)

func NewDocument() *Document {
	return &Document{cookies: make(map[string]*http.Cookie)}
}

func (d *Document) Set(name, value string, days int) {
	d.write(NewCookie(name, value, days))
}

// Get returns the decoded value of the first pair whose key is exactly name.
func (d *Document) Get(name string) (string, bool) {
	prefix := name + "="
	for _, pair := range strings.Split(d.String(), "; ") {
		if strings.HasPrefix(pair, prefix) {
			return Decode(strings.TrimPrefix(pair, prefix)), true
		}
	}
	return "", false
}

func (d *Document) Delete(name string) {
	d.write(ExpiredCookie(name))
}

// String renders the live cookies in insertion order, as document.cookie would.
func (d *Document) String() string {
	cookies := d.Cookies()
	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}

// Cookies returns copies of the unexpired cookies in insertion order.
func (d *Document) Cookies() []*http.Cookie {
	d.mu.RLock()
	defer d.mu.RUnlock()

	cookies := make([]*http.Cookie, 0, len(d.order))
	for _, name := range d.order {
		c := d.cookies[name]
		if expired(c) {
			continue
		}
		copied := *c
		cookies = append(cookies, &copied)
	}
	return cookies
}

// Names lists the live cookie names, sorted.
func (d *Document) Names() []string {
	cookies := d.Cookies()
	names := make([]string, 0, len(cookies))
	for _, c := range cookies {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

func (d *Document) write(c *http.Cookie) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if expired(c) {
		if _, ok := d.cookies[c.Name]; ok {
			delete(d.cookies, c.Name)
			d.order = removeName(d.order, c.Name)
		}
		return
	}
	if _, ok := d.cookies[c.Name]; !ok {
		d.order = append(d.order, c.Name)
	}
	d.cookies[c.Name] = c
}

func removeName(names []string, name string) []string {
	for i, n := range names {
		if n == name {
			return append(names[:i], names[i+1:]...)
		}
	}
	return names
}
