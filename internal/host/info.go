// Package host exposes device, SDK and host-application information:
// everything the protocol needs to identify where a request came from.
package host

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/text/language"
)

// SDK identity, baked into every User-Agent.
const (
	SDKName    = "linkback"
	SDKVersion = "1.0.0"
	SDKBuild   = 1
)

// DefaultBaseURL is the production attribution service.
const DefaultBaseURL = "https://api.usebutton.com"

// Info describes the SDK build, the host application and the device it
// runs on. Immutable once constructed; the user agent and capabilities
// are derived from it exactly once.
type Info struct {
	ApplicationID string
	BaseURL       string

	OSName    string
	OSVersion string

	DeviceManufacturer string
	DeviceModel        string

	PackageName string
	AppVersion  string
	AppBuild    int

	ScreenWidth   int
	ScreenHeight  int
	ScreenDensity float64

	Locale   language.Tag
	TimeZone string
}

// New constructs an Info, filling environment-derived defaults for any
// field the caller left empty: OS name from the runtime, locale from
// the process environment, base URL from DefaultBaseURL.
func New(info Info) *Info {
	if info.BaseURL == "" {
		info.BaseURL = DefaultBaseURL
	}
	if info.OSName == "" {
		info.OSName = runtime.GOOS
	}
	if info.Locale == language.Und {
		info.Locale = detectLocale()
	}
	if info.ScreenDensity == 0 {
		info.ScreenDensity = 1.0
	}
	return &info
}

// ScreenSize formats the screen resolution as "WIDTHxHEIGHT", or
// "unknown" when the host reported none.
func (i *Info) ScreenSize() string {
	if i.ScreenWidth <= 0 || i.ScreenHeight <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", i.ScreenWidth, i.ScreenHeight)
}

// Device formats the device as "Manufacturer Model".
func (i *Info) Device() string {
	return strings.TrimSpace(i.DeviceManufacturer + " " + i.DeviceModel)
}

// Language returns the base language of the host locale ("en"), or ""
// when undetermined.
func (i *Info) Language() string {
	if i.Locale == language.Und {
		return ""
	}
	base, conf := i.Locale.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

// Country returns the locale region ("US"), or "" when undetermined.
func (i *Info) Country() string {
	if i.Locale == language.Und {
		return ""
	}
	region, conf := i.Locale.Region()
	if conf == language.No {
		return ""
	}
	return region.String()
}

// Capabilities describes what this client can render. Computed once;
// currently client metadata only, not transmitted on any endpoint.
func (i *Info) Capabilities() map[string]any {
	return map[string]any{
		"screen_scale":            i.ScreenDensity,
		"supported_display_types": []string{"standard_button_v1"},
	}
}
