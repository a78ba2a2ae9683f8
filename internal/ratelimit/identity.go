package ratelimit

import "strings"

// ClientIdentity derives the rate-limit key from forwarded-for style headers.
// It takes the first non-empty of: the first hop of X-Forwarded-For,
// X-Real-IP, CF-Connecting-IP, else the literal "unknown". All clients whose
// identity cannot be derived share the "unknown" bucket; that is a known
// weakness of the source policy and is kept as-is.
func ClientIdentity(get func(key string) string) string {
	if xff := strings.TrimSpace(get("X-Forwarded-For")); xff != "" {
		first := xff
		if idx := strings.Index(xff, ","); idx >= 0 {
			first = xff[:idx]
		}
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(get("X-Real-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	return "unknown"
}
