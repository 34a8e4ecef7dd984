package ratelimit

import (
	"net/http"
	"testing"
	"time"

	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
)

func testRequest(remoteAddr string, headers request.Values) *request.Request {
	return request.New(request.Sources{
		Server:  request.Values{"REMOTE_ADDR": remoteAddr},
		Headers: headers,
	})
}

var ok = middleware.HandlerFunc(func(*request.Request) (*http.Response, error) {
	return middleware.NewTextResponse(http.StatusOK, ""), nil
})

func status(t *testing.T, p *middleware.Pipeline, r *request.Request) int {
	rsp, err := p.Run(r, ok)
	if err != nil {
		t.Fatal(err)
	}

	return rsp.StatusCode
}

func TestArgs(t *testing.T) {
	for _, ti := range []struct {
		msg     string
		spec    middleware.Spec
		args    []interface{}
		isError bool
	}{
		{"service", NewServiceRatelimit(), []interface{}{10, "1m"}, false},
		{"service, float hits and millis", NewServiceRatelimit(), []interface{}{10.0, 60000}, false},
		{"service, too many args", NewServiceRatelimit(), []interface{}{10, "1m", "Authorization"}, true},
		{"client", NewClientRatelimit(), []interface{}{10, "1m"}, false},
		{"client with header", NewClientRatelimit(), []interface{}{10, "1m", "Authorization"}, false},
		{"client, invalid header", NewClientRatelimit(), []interface{}{10, "1m", 42}, true},
		{"missing window", NewServiceRatelimit(), []interface{}{10}, true},
		{"zero hits", NewServiceRatelimit(), []interface{}{0, "1m"}, true},
		{"invalid window", NewServiceRatelimit(), []interface{}{10, "foo"}, true},
		{"negative window", NewServiceRatelimit(), []interface{}{10, "-1m"}, true},
	} {
		t.Run(ti.msg, func(t *testing.T) {
			_, err := ti.spec.CreateMiddleware(ti.args)
			if ti.isError != (err != nil) {
				t.Errorf("unexpected error result: %v", err)
			}
		})
	}
}

func TestServiceRatelimit(t *testing.T) {
	m, err := NewServiceRatelimit().CreateMiddleware([]interface{}{3, "1h"})
	if err != nil {
		t.Fatal(err)
	}

	p := middleware.New(m)
	for i := 0; i < 3; i++ {
		if s := status(t, p, testRequest("127.0.0.1", nil)); s != http.StatusOK {
			t.Fatalf("request %d rejected: %d", i, s)
		}
	}

	rsp, err := p.Run(testRequest("127.0.0.2", nil), ok)
	if err != nil {
		t.Fatal(err)
	}

	if rsp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("failed to limit: %d", rsp.StatusCode)
	}

	if rsp.Header.Get(RetryAfterHeader) == "" {
		t.Error("missing retry after header")
	}
}

func TestClientRatelimit(t *testing.T) {
	m, err := NewClientRatelimit().CreateMiddleware([]interface{}{2, "1h"})
	if err != nil {
		t.Fatal(err)
	}

	p := middleware.New(m)
	for _, ti := range []struct {
		remoteAddr string
		expected   int
	}{
		{"10.0.0.1:4242", http.StatusOK},
		{"10.0.0.1:4243", http.StatusOK},
		{"10.0.0.1:4244", http.StatusTooManyRequests},
		{"10.0.0.2:4242", http.StatusOK},
	} {
		if s := status(t, p, testRequest(ti.remoteAddr, nil)); s != ti.expected {
			t.Errorf("invalid status for %s, got: %d, expected: %d", ti.remoteAddr, s, ti.expected)
		}
	}

	if s := status(t, p, testRequest("10.0.0.3", request.Values{"X-Forwarded-For": "10.0.0.1"})); s != http.StatusTooManyRequests {
		t.Errorf("failed to use the forwarded address: %d", s)
	}
}

func TestClientRatelimitByHeader(t *testing.T) {
	m, err := NewClientRatelimit().CreateMiddleware([]interface{}{1, "1h", "Authorization"})
	if err != nil {
		t.Fatal(err)
	}

	p := middleware.New(m)
	for _, ti := range []struct {
		auth     string
		expected int
	}{
		{"Bearer foo", http.StatusOK},
		{"Bearer bar", http.StatusOK},
		{"Bearer foo", http.StatusTooManyRequests},
		{"", http.StatusOK},
		{"", http.StatusOK},
	} {
		var h request.Values
		if ti.auth != "" {
			h = request.Values{"Authorization": ti.auth}
		}

		if s := status(t, p, testRequest("127.0.0.1", h)); s != ti.expected {
			t.Errorf("invalid status for %q, got: %d, expected: %d", ti.auth, s, ti.expected)
		}
	}
}

func TestRefill(t *testing.T) {
	p := middleware.New(New(Settings{MaxHits: 1, TimeWindow: 20 * time.Millisecond}))
	if s := status(t, p, testRequest("", nil)); s != http.StatusOK {
		t.Fatalf("request rejected: %d", s)
	}

	if s := status(t, p, testRequest("", nil)); s != http.StatusTooManyRequests {
		t.Fatalf("failed to limit: %d", s)
	}

	time.Sleep(40 * time.Millisecond)
	if s := status(t, p, testRequest("", nil)); s != http.StatusOK {
		t.Errorf("failed to refill: %d", s)
	}
}

func TestPurgeFullBuckets(t *testing.T) {
	l := New(Settings{MaxHits: 1, TimeWindow: time.Hour, MaxClients: 2, Lookuper: HeaderLookuper("X-Client")}).(*limiter)
	for _, c := range []string{"a", "b", "c"} {
		if allow, _ := l.Allow(c); !allow {
			t.Fatalf("client %s rejected", c)
		}
	}

	// the buckets of a and b are empty, they are kept
	if len(l.buckets) != 3 {
		t.Errorf("invalid number of buckets: %d", len(l.buckets))
	}
}
