package cookies

import (
	"net/http"
	"sync"
)

// HTTPJar is a Jar scoped to one server request. Reads come from the request's
// Cookie header, writes become Set-Cookie headers on the response. Writes made
// during the request are visible to later reads.
type HTTPJar struct {
	w       http.ResponseWriter
	r       *http.Request
	mu      sync.Mutex
	pending map[string]*http.Cookie
}

var _ Jar = (*HTTPJar)(nil)

func NewHTTPJar(w http.ResponseWriter, r *http.Request) *HTTPJar {
	return &HTTPJar{w: w, r: r, pending: make(map[string]*http.Cookie)}
}

func (j *HTTPJar) Set(name, value string, days int) {
	c := NewCookie(name, value, days)
	c.HttpOnly = true
	c.MaxAge = days * 24 * 60 * 60
	j.write(c)
}

func (j *HTTPJar) Get(name string) (string, bool) {
	j.mu.Lock()
	c, ok := j.pending[name]
	j.mu.Unlock()
	if ok {
		if expired(c) || c.MaxAge < 0 {
			return "", false
		}
		return Decode(c.Value), true
	}

	c, err := j.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return Decode(c.Value), true
}

func (j *HTTPJar) Delete(name string) {
	c := ExpiredCookie(name)
	c.HttpOnly = true
	j.write(c)
}

func (j *HTTPJar) write(c *http.Cookie) {
	j.mu.Lock()
	j.pending[c.Name] = c
	j.mu.Unlock()
	http.SetCookie(j.w, c)
}
