package addrutil

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Host returns the host part of an address that may or may not carry a
// port. Unbracketed IPv6 "host:port" forms are accepted.
func Host(addr string) string {
	a := strings.TrimSpace(addr)
	if a == "" {
		return ""
	}

	// Fast path: "host:port" (IPv4 or bracketed IPv6).
	if h, _, err := net.SplitHostPort(a); err == nil {
		return h
	}

	// Handle unbracketed IPv6 "host:port" by peeling off the last ":port".
	// A bare IPv6 address parses as an IP and is returned as is.
	if strings.Count(a, ":") > 1 && !strings.HasPrefix(a, "[") && net.ParseIP(a) == nil {
		if last := strings.LastIndexByte(a, ':'); last > 0 && last < len(a)-1 {
			host := a[:last]
			port := a[last+1:]
			if _, err := strconv.Atoi(port); err == nil {
				return host
			}
		}
	}

	if strings.Contains(a, ":") {
		return strings.Trim(a, "[]")
	}
	return a
}

// IsLoopbackURL reports whether rawURL points at this machine, i.e. the
// dashboard runs on the gateway itself.
func IsLoopbackURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return false
	}
	host := u.Hostname()
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
