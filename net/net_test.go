package net

import (
	"net/netip"
	"strings"
	"testing"

	"github.com/zalando/routecond/request"
)

func testRequest(remoteAddr string, xff ...string) *request.Request {
	s := request.Sources{Server: request.Values{"REMOTE_ADDR": remoteAddr}}
	if len(xff) > 0 {
		s.Headers = request.Values{"x-forwarded-for": strings.Join(xff, ", ")}
	}

	return request.New(s)
}

func TestRemoteAddr(t *testing.T) {
	for _, tt := range []struct {
		name   string
		input  string
		want   netip.Addr
		fwdHdr []string
	}{
		{"no header1", "127.0.0.1", netip.MustParseAddr("127.0.0.1"), nil},
		{"no header2", "1.2.3.4", netip.MustParseAddr("1.2.3.4"), nil},
		{"no header3", "100.200.300.400", netip.Addr{}, nil},
		{"no header4", "127.0.0.1:8080", netip.MustParseAddr("127.0.0.1"), nil},
		{"single header1", "127.0.0.1", netip.MustParseAddr("172.16.0.1"), []string{"172.16.0.1"}},
		{"invalid header", "127.0.0.1", netip.MustParseAddr("127.0.0.1"), []string{"invalid header"}},
		{"multiple header1", "127.0.0.1", netip.MustParseAddr("172.16.0.1"), []string{"172.16.0.1", "1.2.3.4", "8.7.6.5"}},
		{"no header5", "2001:4860:0:2001::68", netip.MustParseAddr("2001:4860:0:2001::68"), nil},
		{"single header2", "127.0.0.1", netip.MustParseAddr("2001:4860:0:2001::68"), []string{"2001:4860:0:2001::68"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got := RemoteAddr(testRequest(tt.input, tt.fwdHdr...))
			if got != tt.want {
				t.Errorf("Unexpected IP address '%v'. Wanted '%v'", got, tt.want)
			}
		})
	}
}

func TestRemoteAddrFromLast(t *testing.T) {
	for _, tt := range []struct {
		name   string
		input  string
		want   netip.Addr
		fwdHdr []string
	}{
		{"no header", "127.0.0.1", netip.MustParseAddr("127.0.0.1"), nil},
		{"no header2", "1.2.3.4", netip.MustParseAddr("1.2.3.4"), nil},
		{"no header3", "100.200.300.400", netip.Addr{}, nil},
		{"no header4", "127.0.0.1:8080", netip.MustParseAddr("127.0.0.1"), nil},
		{"single header", "127.0.0.1", netip.MustParseAddr("172.16.0.1"), []string{"172.16.0.1"}},
		{"invalid header", "127.0.0.1", netip.MustParseAddr("127.0.0.1"), []string{"invalid header"}},
		{"multiple entries", "127.0.0.1", netip.MustParseAddr("8.7.6.5"), []string{"172.16.0.1", "1.2.3.4", "8.7.6.5"}},
		{"2 entries", "127.0.0.1", netip.MustParseAddr("8.7.6.5"), []string{"1.2.3.4", "8.7.6.5"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got := RemoteAddrFromLast(testRequest(tt.input, tt.fwdHdr...))
			if got != tt.want {
				t.Errorf("Unexpected IP address '%v'. Wanted '%v'", got, tt.want)
			}
		})
	}
}

func TestParseIPCIDRs(t *testing.T) {
	for _, tt := range []struct {
		name     string
		cidrs    []string
		contains []string
		excludes []string
		fail     bool
	}{{
		name:     "single address",
		cidrs:    []string{"1.2.3.4"},
		contains: []string{"1.2.3.4"},
		excludes: []string{"1.2.3.5"},
	}, {
		name:     "network",
		cidrs:    []string{"10.0.0.0/8", "::1"},
		contains: []string{"10.1.2.3", "::1"},
		excludes: []string{"11.0.0.1"},
	}, {
		name:     "partially invalid",
		cidrs:    []string{"foo", "10.0.0.0/8"},
		contains: []string{"10.1.2.3"},
		fail:     true,
	}} {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ParseIPCIDRs(tt.cidrs)
			if tt.fail != (err != nil) {
				t.Fatalf("unexpected error result: %v", err)
			}

			for _, a := range tt.contains {
				if !set.Contains(netip.MustParseAddr(a)) {
					t.Errorf("expected to contain: %s", a)
				}
			}

			for _, a := range tt.excludes {
				if set.Contains(netip.MustParseAddr(a)) {
					t.Errorf("expected not to contain: %s", a)
				}
			}
		})
	}
}
