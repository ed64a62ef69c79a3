package types

import "time"

// AuthSession is one bearer-token session row. A user may hold several
// concurrent sessions; a session is active iff LogoutAt is nil. ExpiresAt
// is recorded at sign-in but validity is gated by LogoutAt only.
type AuthSession struct {
	ID          int64      `json:"-"`
	UUID        string     `json:"id"`
	User        *User      `json:"-"`
	AccessToken string     `json:"-"`
	LoginAt     time.Time  `json:"login_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	LogoutAt    *time.Time `json:"logout_at,omitempty"`
}

// Active reports whether the session still authorizes requests.
func (s *AuthSession) Active() bool {
	return s.LogoutAt == nil
}
