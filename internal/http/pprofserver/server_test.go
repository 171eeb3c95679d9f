package pprofserver

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestGuard(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		cfg        Config
		remoteAddr string
		authHeader string
		wantStatus int
	}{
		{"loopback skips auth", Config{}, "127.0.0.1:12345", "", http.StatusTeapot},
		{"loopback ipv6 skips auth", Config{}, "[::1]:12345", "", http.StatusTeapot},
		{"remote without creds configured", Config{}, "198.51.100.4:443", "", http.StatusUnauthorized},
		{"remote without header", Config{User: "u", Pass: "p"}, "198.51.100.4:443", "", http.StatusUnauthorized},
		{"remote wrong password", Config{User: "u", Pass: "p"}, "198.51.100.4:443", basicAuth("u", "nope"), http.StatusUnauthorized},
		{"remote wrong user", Config{User: "u", Pass: "p"}, "198.51.100.4:443", basicAuth("eve", "p"), http.StatusUnauthorized},
		{"remote correct creds", Config{User: "u", Pass: "p"}, "198.51.100.4:443", basicAuth("u", "p"), http.StatusTeapot},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			})

			req := httptest.NewRequest(http.MethodGet, "http://example/debug/pprof/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			rr := httptest.NewRecorder()
			guard(next, tc.cfg).ServeHTTP(rr, req)

			require.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantStatus == http.StatusUnauthorized {
				assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestHandler_ServesIndexOnLoopback(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "http://example/debug/pprof/", nil)
	req.RemoteAddr = "127.0.0.1:40000"
	rr := httptest.NewRecorder()

	Handler(Config{}).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "goroutine")
}

func TestIsLoopback(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{"127.0.0.1:123", true},
		{"127.0.0.1", true},
		{" 127.0.0.1 ", true},
		{"[::1]:123", true},
		{"198.51.100.4:1", false},
		{"not-an-ip:1", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, isLoopback(tc.in), "isLoopback(%q)", tc.in)
	}
}

func TestConstantTimeEq(t *testing.T) {
	t.Parallel()

	assert.True(t, constantTimeEq("secret", "secret"))
	assert.False(t, constantTimeEq("secret", "secreT"))
	assert.False(t, constantTimeEq("short", "longer"))
	assert.True(t, constantTimeEq("", ""))
}
