package valueobject

import "strings"

// DeviceType is an immutable value object classifying the device behind a
// request.
type DeviceType struct {
	value string
}

var (
	DeviceTypeDesktop = DeviceType{value: "DESKTOP"}
	DeviceTypeMobile  = DeviceType{value: "MOBILE"}
	DeviceTypeTablet  = DeviceType{value: "TABLET"}
	DeviceTypeUnknown = DeviceType{value: "UNKNOWN"}
)

// DeviceTypeFromUserAgent classifies a raw user-agent string. Tablets are
// checked before phones because tablet user agents frequently contain
// "Mobile" as well. An empty user agent classifies as UNKNOWN.
func DeviceTypeFromUserAgent(userAgent string) DeviceType {
	if userAgent == "" {
		return DeviceTypeUnknown
	}

	ua := strings.ToLower(userAgent)

	switch {
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"):
		return DeviceTypeTablet
	case strings.Contains(ua, "mobile"),
		strings.Contains(ua, "android"),
		strings.Contains(ua, "iphone"):
		return DeviceTypeMobile
	case strings.Contains(ua, "windows"),
		strings.Contains(ua, "macintosh"),
		strings.Contains(ua, "x11"),
		strings.Contains(ua, "linux"):
		return DeviceTypeDesktop
	default:
		return DeviceTypeUnknown
	}
}

// DeviceTypeFromString reconstructs a DeviceType from its string representation.
func DeviceTypeFromString(s string) DeviceType {
	switch s {
	case "DESKTOP":
		return DeviceTypeDesktop
	case "MOBILE":
		return DeviceTypeMobile
	case "TABLET":
		return DeviceTypeTablet
	default:
		return DeviceTypeUnknown
	}
}

// String returns the string representation.
func (d DeviceType) String() string {
	return d.value
}

// IsMobile returns true for phone-class devices.
func (d DeviceType) IsMobile() bool {
	return d.value == "MOBILE"
}

// Equal checks equality with another DeviceType.
func (d DeviceType) Equal(other DeviceType) bool {
	return d.value == other.value
}
