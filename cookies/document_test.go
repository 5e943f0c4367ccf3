package cookies_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-client/cookies"
	"github.com/stretchr/testify/require"
)

func freezeTime(t *testing.T, now time.Time) *time.Time {
	t.Helper()
	current := now
	cookies.NowTimeFunc = func() time.Time { return current }
	t.Cleanup(func() { cookies.NowTimeFunc = time.Now })
	return &current
}

func TestDocument_SetGet(t *testing.T) {
	doc := cookies.NewDocument()
	doc.Set("refresh_token", "a b;c=d", 7)

	v, ok := doc.Get("refresh_token")
	require.True(t, ok)
	require.Equal(t, "a b;c=d", v)
	require.Equal(t, "refresh_token=a%20b%3Bc%3Dd", doc.String())
}

func TestEncodeMatchesEncodeURIComponent(t *testing.T) {
	tests := []struct {
		raw     string
		encoded string
	}{
		{"a b", "a%20b"},
		{"a+b/c", "a%2Bb%2Fc"},
		{"x;y,z=", "x%3By%2Cz%3D"},
		{"-_.!~*'()", "-_.!~*'()"},
		{"é", "%C3%A9"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.encoded, cookies.Encode(tt.raw), tt.raw)
		require.Equal(t, tt.raw, cookies.Decode(tt.encoded), tt.encoded)
	}
}

func TestDecodeKeepsLiteralPlus(t *testing.T) {
	require.Equal(t, "abc+/=", cookies.Decode("abc+/="))
	require.Equal(t, "%zz", cookies.Decode("%zz"))
}

func TestDocument_GetMissing(t *testing.T) {
	doc := cookies.NewDocument()
	_, ok := doc.Get("refresh_token")
	require.False(t, ok)
}

func TestDocument_ExactNameMatch(t *testing.T) {
	doc := cookies.NewDocument()
	doc.Set("xuser_id", "wrong", 7)
	doc.Set("user_id_2", "wrong", 7)

	_, ok := doc.Get("user_id")
	require.False(t, ok)

	doc.Set("user_id", "u", 7)
	v, ok := doc.Get("user_id")
	require.True(t, ok)
	require.Equal(t, "u", v)
}

func TestDocument_Attributes(t *testing.T) {
	now := freezeTime(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	doc := cookies.NewDocument()
	doc.Set("refresh_token", "r", 7)

	all := doc.Cookies()
	require.Len(t, all, 1)
	c := all[0]
	require.Equal(t, "/", c.Path)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
	require.Equal(t, now.Add(7*24*time.Hour), c.Expires)
}

func TestDocument_Expiry(t *testing.T) {
	now := freezeTime(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	doc := cookies.NewDocument()
	doc.Set("refresh_token", "r", 7)

	*now = now.Add(7*24*time.Hour + time.Second)
	_, ok := doc.Get("refresh_token")
	require.False(t, ok)
	require.Empty(t, doc.String())
}

func TestDocument_Delete(t *testing.T) {
	doc := cookies.NewDocument()
	doc.Set("refresh_token", "r", 7)
	doc.Set("user_id", "u", 7)

	doc.Delete("refresh_token")

	_, ok := doc.Get("refresh_token")
	require.False(t, ok)
	require.Equal(t, []string{"user_id"}, doc.Names())

	// deleting twice is harmless
	doc.Delete("refresh_token")
}

func TestDocument_OverwriteKeepsOrder(t *testing.T) {
	doc := cookies.NewDocument()
	doc.Set("a", "1", 1)
	doc.Set("b", "2", 1)
	doc.Set("a", "3", 1)

	require.Equal(t, "a=3; b=2", doc.String())
}
