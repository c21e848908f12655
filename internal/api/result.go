package api

// Attribution identifies the source a recovered link is credited to.
type Attribution struct {
	BtnRef    string `json:"btn_ref"`
	UTMSource string `json:"utm_source"`
}

// DeferredAttribution is the typed result of a pending-link lookup.
//
// Action is only meaningful when Match is true; parsing clears it
// otherwise, so wire content can never leak a link for a non-match.
type DeferredAttribution struct {
	ID          string       `json:"id"`
	Match       bool         `json:"match"`
	Action      string       `json:"action,omitempty"`
	Attribution *Attribution `json:"attribution,omitempty"`
}

// Link returns the deep-link URI, or false when the result is not an
// actionable match.
func (d *DeferredAttribution) Link() (string, bool) {
	if d == nil || !d.Match || d.Action == "" {
		return "", false
	}
	return d.Action, true
}
