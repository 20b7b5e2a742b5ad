package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/service"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/valueobject"
)

func TestExtractor_Extract(t *testing.T) {
	e := service.NewExtractor()
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	t.Run("full metadata", func(t *testing.T) {
		fp := e.Extract(model.RequestMeta{
			Headers: map[string]string{
				"User-Agent":      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)",
				"X-Forwarded-For": "198.51.100.7, 10.0.0.1",
			},
			RemoteAddr: "10.0.0.1:54321",
			SessionID:  "sess-42",
		}, now)

		assert.Equal(t, valueobject.DeviceTypeMobile, fp.DeviceType)
		assert.Equal(t, "198.51.100.7", fp.NetworkOrigin)
		assert.Equal(t, "sess-42", fp.SessionID)
		assert.Equal(t, now, fp.CapturedAt)
	})

	t.Run("missing headers never fail", func(t *testing.T) {
		fp := e.Extract(model.RequestMeta{RemoteAddr: "192.0.2.5:8080"}, now)

		assert.Equal(t, valueobject.DeviceTypeUnknown, fp.DeviceType)
		assert.Equal(t, "192.0.2.5", fp.NetworkOrigin)
		assert.Empty(t, fp.UserAgentSummary)
	})

	t.Run("header lookup is case-insensitive", func(t *testing.T) {
		fp := e.Extract(model.RequestMeta{
			Headers: map[string]string{"x-real-ip": "203.0.113.9"},
		}, now)

		assert.Equal(t, "203.0.113.9", fp.NetworkOrigin)
	})

	t.Run("forwarded header precedence", func(t *testing.T) {
		fp := e.Extract(model.RequestMeta{
			Headers: map[string]string{
				"X-Real-IP":        "203.0.113.1",
				"CF-Connecting-IP": "203.0.113.2",
			},
			RemoteAddr: "10.0.0.1:1234",
		}, now)

		assert.Equal(t, "203.0.113.1", fp.NetworkOrigin)
	})

	t.Run("raw address without a port is kept as-is", func(t *testing.T) {
		fp := e.Extract(model.RequestMeta{RemoteAddr: "192.0.2.8"}, now)

		assert.Equal(t, "192.0.2.8", fp.NetworkOrigin)
	})

	t.Run("oversized user agent is truncated", func(t *testing.T) {
		fp := e.Extract(model.RequestMeta{
			Headers: map[string]string{"User-Agent": strings.Repeat("a", 1000)},
		}, now)

		assert.Len(t, fp.UserAgentSummary, 256)
	})
}
