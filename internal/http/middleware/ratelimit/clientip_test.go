package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"courierflow/internal/logx"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{"ipv4 with port", "203.0.113.9:41234", "203.0.113.9"},
		{"ipv6 with port", "[2001:db8::1]:443", "2001:db8::1"},
		{"no port", "203.0.113.9", "203.0.113.9"},
		{"empty", "", "unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
			r.RemoteAddr = tc.remoteAddr
			assert.Equal(t, tc.want, clientIP(r))
		})
	}
}

func TestNew_NilLimiterAdmitsEverything(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := New(logx.Nop(), nil, nil).Handler()(next)

	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
