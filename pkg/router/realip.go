package router

import (
	"net"
	"net/http"
)

// RealIP returns the client address for a request with a defined
// precedence: the reverse-proxy-set HTTP_X_REAL_IP header, then
// x-real-ip, then the host part of the transport peer address. Header
// values are trusted as-is; there is no verification.
func RealIP(r *http.Request) string {
	if ip := r.Header.Get("HTTP_X_REAL_IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("x-real-ip"); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, e.g. from a unix socket.
		return r.RemoteAddr
	}
	return host
}
