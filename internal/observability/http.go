package observability

import (
	"net"
	"net/http"
	"strings"
)

// Identity is the caller metadata attached to websocket and audit events.
type Identity struct {
	RequestID string
	DeviceID  string
	IP        string
}

// IdentityFromRequest collects request, device and client address headers.
func IdentityFromRequest(r *http.Request) Identity {
	return Identity{
		RequestID: r.Header.Get("X-Request-Id"),
		DeviceID:  r.Header.Get("X-Device-Id"),
		IP:        ipFromRequest(r),
	}
}

func ipFromRequest(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
