package ratelimit

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// GetClientIP returns the address the inquiry came from. Forwarding headers
// are only read when trustProxy is set; X-Forwarded-For then yields its
// rightmost public hop.
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip, ok := forwardedClient(r.Header.Get("X-Forwarded-For")); ok {
			return ip
		}
		if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
			return realIP
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}

// forwardedClient walks X-Forwarded-For from the right. When every hop is
// internal the last one is used.
func forwardedClient(header string) (string, bool) {
	if strings.TrimSpace(header) == "" {
		return "", false
	}
	hops := strings.Split(header, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if addr, err := netip.ParseAddr(hop); err == nil && isPublic(addr) {
			return hop, true
		}
	}
	return strings.TrimSpace(hops[len(hops)-1]), true
}

func isPublic(addr netip.Addr) bool {
	addr = addr.Unmap()
	return !addr.IsPrivate() && !addr.IsLoopback() && !addr.IsLinkLocalUnicast() && !addr.IsUnspecified()
}
