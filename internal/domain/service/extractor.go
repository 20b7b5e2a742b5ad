package service

import (
	"net"
	"strings"
	"time"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/valueobject"
)

// maxUserAgentSummary bounds the stored user-agent string.
const maxUserAgentSummary = 256

// Extractor derives a DeviceFingerprint from raw request metadata. It never
// fails: missing headers produce Unknown/empty defaults.
type Extractor struct {
	forwardedHeaders []string
}

// NewExtractor creates an Extractor with the standard forwarded-address
// header precedence.
func NewExtractor() *Extractor {
	return &Extractor{
		forwardedHeaders: []string{
			"X-Forwarded-For",
			"X-Real-IP",
			"CF-Connecting-IP",
		},
	}
}

// Extract builds a fingerprint for a single inbound request.
func (e *Extractor) Extract(meta model.RequestMeta, now time.Time) model.DeviceFingerprint {
	ua := meta.Header("User-Agent")

	return model.DeviceFingerprint{
		DeviceType:       valueobject.DeviceTypeFromUserAgent(ua),
		NetworkOrigin:    e.networkOrigin(meta),
		UserAgentSummary: summarizeUserAgent(ua),
		SessionID:        meta.SessionID,
		CapturedAt:       now,
	}
}

// networkOrigin reads the first present forwarded-address header, falling
// back to the raw connection address.
func (e *Extractor) networkOrigin(meta model.RequestMeta) string {
	for _, h := range e.forwardedHeaders {
		if v := meta.Header(h); v != "" {
			// X-Forwarded-For may hold a chain; the first hop is the client.
			if idx := strings.IndexByte(v, ','); idx >= 0 {
				v = v[:idx]
			}
			return strings.TrimSpace(v)
		}
	}

	addr := meta.RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func summarizeUserAgent(ua string) string {
	if len(ua) > maxUserAgentSummary {
		return ua[:maxUserAgentSummary]
	}
	return ua
}
