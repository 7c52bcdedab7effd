package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

type clientInfoKey struct{}

// ClientInfo carries a human-readable description of the calling client,
// attached to verification audit events.
type ClientInfo struct {
	UserAgent   string
	Description string
}

// ClientMetadata extracts the User-Agent header and derives a display name
// like "Chrome on Mac OS X" for audit trails.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := r.Header.Get("User-Agent")
		info := ClientInfo{
			UserAgent:   ua,
			Description: DescribeUserAgent(ua),
		}
		ctx := context.WithValue(r.Context(), clientInfoKey{}, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientInfo retrieves client metadata from the context.
func GetClientInfo(ctx context.Context) ClientInfo {
	if info, ok := ctx.Value(clientInfoKey{}).(ClientInfo); ok {
		return info
	}
	return ClientInfo{Description: "Unknown Client"}
}

// DescribeUserAgent extracts a human-readable client name from a User-Agent
// string, format "Browser on OS" (e.g. "Chrome on Linux").
func DescribeUserAgent(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Client"
	}

	ua := useragent.New(userAgentString)
	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}
	return browser + " on " + os
}
