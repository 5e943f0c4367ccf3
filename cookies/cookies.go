// Package cookies provides small cookie jars with browser semantics: values are
// URL-encoded, written with Path=/, Secure and SameSite=Lax, and expire a whole
// number of days after they are set.
package cookies

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Jar reads and writes string values by cookie name. Implementations never
// surface storage failures to the caller.
type Jar interface {
	Set(name, value string, days int)
	Get(name string) (string, bool)
	Delete(name string)
}

// Epoch is the expiry written by Delete.
var Epoch = time.Unix(0, 0).UTC()

// NewCookie builds the cookie Set writes: URL-encoded value, Path=/, Secure,
// SameSite=Lax, expiring days days from now.
func NewCookie(name, value string, days int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    Encode(value),
		Path:     "/",
		Expires:  NowTimeFunc().Add(time.Duration(days) * 24 * time.Hour).UTC(),
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie builds the overwrite Delete writes.
func ExpiredCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  Epoch,
		MaxAge:   -1,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

const upperhex = "0123456789ABCDEF"

// Encode percent-encodes value the way encodeURIComponent does: a space
// becomes %20 and only A-Z a-z 0-9 - _ . ! ~ * ' ( ) are left as is.
func Encode(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// Decode reverses Encode. A literal '+' stays a '+'. Malformed escapes are
// returned untouched.
func Decode(value string) string {
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return value
	}
	return decoded
}

func expired(c *http.Cookie) bool {
	return !c.Expires.IsZero() && !c.Expires.After(NowTimeFunc())
}
