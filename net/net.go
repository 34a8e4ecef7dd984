// Package net provides helpers to find the client address of a request.
package net

import (
	"net"
	"net/netip"
	"strings"

	"go4.org/netipx"

	"github.com/zalando/routecond/request"
)

const forwardedForHeader = "X-Forwarded-For"

// strip port from addresses with hostname, ipv4 or ipv6
func stripPort(address string) string {
	if h, _, err := net.SplitHostPort(address); err == nil {
		return h
	}

	return address
}

func remoteAddr(r *request.Request) netip.Addr {
	s, _ := r.ServerValue("REMOTE_ADDR", "").(string)
	addr, _ := netip.ParseAddr(stripPort(s))
	return addr
}

// RemoteAddr returns the remote address of the client. When the
// 'X-Forwarded-For' header is set, then its first entry is used instead.
// This is how most often proxies behave.
//
// Example:
//
//	X-Forwarded-For: client, proxy1, proxy2
func RemoteAddr(r *request.Request) netip.Addr {
	if xff := r.Header(forwardedForHeader); xff != "" {
		s, _, _ := strings.Cut(xff, ",")
		if addr, err := netip.ParseAddr(stripPort(strings.TrimSpace(s))); err == nil {
			return addr
		}
	}

	return remoteAddr(r)
}

// RemoteAddrFromLast returns the remote address of the client. When
// the 'X-Forwarded-For' header is set, then its last entry is used
// instead. This is known to be true for AWS Application LoadBalancer.
//
// Example:
//
//	X-Forwarded-For: ip-address-1, ip-address-2, client-ip-address
func RemoteAddrFromLast(r *request.Request) netip.Addr {
	xff := r.Header(forwardedForHeader)
	if xff == "" {
		return remoteAddr(r)
	}

	last := xff
	if i := strings.LastIndex(xff, ","); i != -1 {
		last = xff[i+1:]
	}

	addr, err := netip.ParseAddr(strings.TrimSpace(last))
	if err != nil {
		return remoteAddr(r)
	}

	return addr
}

// ParseIPCIDRs returns a valid IPSet even in case there are parsing
// errors of some partial provided input cidrs. So recently added
// bogus values can be logged and ignored at runtime.
func ParseIPCIDRs(cidrs []string) (*netipx.IPSet, error) {
	var (
		b   netipx.IPSetBuilder
		err error
	)

	for _, w := range cidrs {
		if strings.Contains(w, "/") {
			if pref, e := netip.ParsePrefix(w); e != nil {
				err = e
			} else {
				b.AddPrefix(pref)
			}
		} else if addr, e := netip.ParseAddr(w); e != nil {
			err = e
		} else {
			b.Add(addr)
		}
	}

	ips, e := b.IPSet()
	if e != nil {
		return ips, e
	}

	return ips, err
}
