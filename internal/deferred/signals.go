package deferred

import (
	"time"

	"github.com/roach88/linkback/internal/host"
	"github.com/roach88/linkback/internal/store"
)

// DefaultSourceTag identifies this SDK in the signals bundle.
const DefaultSourceTag = "linkback"

// Signals builds the device/session metadata sent with a pending-link
// lookup. Values are best-effort: an unavailable value is omitted from
// the bundle entirely, never sent as an empty placeholder.
func Signals(info *host.Info, st *store.Store, sourceTag string) map[string]string {
	if sourceTag == "" {
		sourceTag = DefaultSourceTag
	}
	signals := make(map[string]string)
	put := func(key, value string) {
		if value != "" {
			signals[key] = value
		}
	}

	put("timezone", timezoneID(info))
	put("os", info.OSName)
	put("os_version", info.OSVersion)
	put("device", info.Device())
	put("screen", info.ScreenSize())
	put("country", info.Country())
	put("language", info.Language())
	if st != nil {
		if referrer, err := st.InstallReferrer(); err == nil {
			put("install_referrer", referrer)
		}
	}
	put("source", sourceTag)
	return signals
}

// timezoneID prefers the host-declared zone and falls back to the
// process's current zone name.
func timezoneID(info *host.Info) string {
	if info.TimeZone != "" {
		return info.TimeZone
	}
	zone, _ := time.Now().Zone()
	return zone
}
