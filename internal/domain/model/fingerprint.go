package model

import (
	"fmt"
	"time"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/valueobject"
)

// DeviceFingerprint is an immutable snapshot of a request's device and
// network characteristics. It is created once per inbound request and never
// mutated.
type DeviceFingerprint struct {
	DeviceType       valueobject.DeviceType
	NetworkOrigin    string
	UserAgentSummary string
	SessionID        string
	CapturedAt       time.Time
}

// SessionRecord is a fingerprint bound to its owning user inside the session
// metadata store.
type SessionRecord struct {
	Key         string
	UserID      string
	Fingerprint DeviceFingerprint
	InsertedAt  time.Time
}

// SessionKey builds the advisory store key for an event: an event prefix,
// a millisecond timestamp and a truncated user id. Keys are not globally
// unique; collisions overwrite (last write wins).
func SessionKey(prefix string, at time.Time, userID string) string {
	fragment := userID
	if len(fragment) > 8 {
		fragment = fragment[:8]
	}
	return fmt.Sprintf("%s%d_%s", prefix, at.UnixMilli(), fragment)
}

// Session key prefixes.
const (
	SessionKeyPrefixLogin   = "login_"
	SessionKeyPrefixSession = "session_"
)
