package request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func TestFindClientIP(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.195, 70.41.3.18"}, "10.0.0.1:1234", "203.0.113.195"},
		{"real ip", map[string]string{"X-Real-Ip": "192.168.10.2"}, "10.0.0.1:1234", "192.168.10.2"},
		{"invalid header", map[string]string{"X-Forwarded-For": "garbage"}, "10.0.0.1:1234", "10.0.0.1"},
		{"ipv6 zone", nil, "[fe80::1%eth0]:80", "fe80::1"},
		{"unix socket", nil, "", "127.0.0.1"},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = tc.remote
		for k, v := range tc.headers {
			r.Header.Set(k, v)
		}
		if got := FindClientIP(r); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestContextValues(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetAccountID(r) != "" {
		t.Fatalf("expected empty account id")
	}
	ctx := context.WithValue(r.Context(), AccountIDContextKey, "acc-1")
	ctx = context.WithValue(ctx, AccountEmailContextKey, "a@example.com")
	r = r.WithContext(ctx)
	if GetAccountID(r) != "acc-1" || GetAccountEmail(r) != "a@example.com" {
		t.Errorf("unexpected context values")
	}
}

func TestRouteStringParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/books/abc", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "abc"})
	if got := RouteStringParam(r, "id"); got != "abc" {
		t.Errorf("got %q", got)
	}
	if got := RouteStringParam(r, "missing"); got != "" {
		t.Errorf("expected empty param, got %q", got)
	}
}
