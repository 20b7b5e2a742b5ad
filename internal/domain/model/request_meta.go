package model

import "strings"

// RequestMeta carries the raw request metadata the fingerprint extractor
// consumes: header values and the remote connection address. Presentation
// adapters populate it from their transport.
type RequestMeta struct {
	Headers    map[string]string
	RemoteAddr string
	SessionID  string
}

// Header performs a case-insensitive header lookup. Returns "" when the
// header is absent.
func (m RequestMeta) Header(name string) string {
	if v, ok := m.Headers[name]; ok {
		return v
	}
	for k, v := range m.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
