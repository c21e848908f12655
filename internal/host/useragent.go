package host

import (
	"fmt"
	"strings"
)

// UserAgent assembles the protocol User-Agent string:
//
//	linkback/1.0.0-1 (linux 6.1; Acme Phone9; com.example.app/1.2.3-41; Scale/2.0; en-US)
//
// Shape: $SDK/$Version-$Build ($OS $OSVersion; $Device; $HostApp/$HostVersion-$HostBuild; Scale/$screenScale; $locale).
func (i *Info) UserAgent() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s/%s-%d ", SDKName, SDKVersion, SDKBuild)

	fmt.Fprintf(&sb, "(%s %s; ", i.OSName, i.OSVersion)
	fmt.Fprintf(&sb, "%s; ", i.Device())
	fmt.Fprintf(&sb, "%s/%s-%d; ", i.PackageName, i.AppVersion, i.AppBuild)
	fmt.Fprintf(&sb, "Scale/%.1f; ", i.ScreenDensity)
	fmt.Fprintf(&sb, "%s-%s)", i.Language(), i.Country())

	return sb.String()
}
