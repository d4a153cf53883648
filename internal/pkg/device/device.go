// internal/pkg/device/device.go
package device

import (
	ua "github.com/mileusna/useragent"
)

// Descriptor is the parsed user-agent blob captured on a session row. It is
// recorded once, at first login from an IP, and never updated afterward.
type Descriptor struct {
	Browser        string `json:"browser"`
	BrowserVersion string `json:"browser_version"`
	OS             string `json:"os"`
	OSVersion      string `json:"os_version"`
	Device         string `json:"device"`
	Mobile         bool   `json:"mobile"`
	Raw            string `json:"raw"`
}

// Describe parses a raw User-Agent header into a Descriptor. Unknown or empty
// agents still yield a usable descriptor with the raw string preserved.
func Describe(userAgent string) Descriptor {
	parsed := ua.Parse(userAgent)
	return Descriptor{
		Browser:        parsed.Name,
		BrowserVersion: parsed.Version,
		OS:             parsed.OS,
		OSVersion:      parsed.OSVersion,
		Device:         parsed.Device,
		Mobile:         parsed.Mobile,
		Raw:            userAgent,
	}
}
