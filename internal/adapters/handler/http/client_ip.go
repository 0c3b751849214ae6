package http

import (
	"net"
	"net/http"
	"strings"
)

// clientIP derives the voter fingerprint from the request's network origin.
// The first X-Forwarded-For hop wins behind a proxy; otherwise the socket
// address is used. Shared networks collide by design, the fingerprint is a
// best-effort dedup key, not an identity.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(ip)
		}
		return strings.TrimSpace(fwd)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
