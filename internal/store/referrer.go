package store

import (
	"fmt"
	"net/url"
)

// referrerQueryParam carries the attribution token on inbound deep
// links.
const referrerQueryParam = "btn_ref"

// TrackIncomingLink inspects an inbound deep-link URI for an
// attribution token and persists it when it differs from the current
// referrer. Returns the token (or "" when the URI carries none) and
// whether the stored value changed.
func (s *Store) TrackIncomingLink(uri string) (token string, changed bool, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", false, fmt.Errorf("parse incoming link: %w", err)
	}
	token = u.Query().Get(referrerQueryParam)
	if token == "" {
		return "", false, nil
	}

	current, err := s.Referrer()
	if err != nil {
		return token, false, err
	}
	if current == token {
		return token, false, nil
	}
	if err := s.SetReferrer(token); err != nil {
		return token, false, err
	}
	return token, true, nil
}
