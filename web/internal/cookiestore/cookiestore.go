// Package cookiestore keeps the session triple in browser cookies,
// one Store per request. Writes go to the response; reads prefer what
// this request already wrote, then fall back to the request cookies,
// so a handler that saves and immediately loads sees its own write.
package cookiestore

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/logitrack/clients/pkg/models"
	"github.com/logitrack/clients/pkg/store"
	"github.com/logitrack/clients/pkg/tokens"
)

const (
	CookieToken        = "logitrack_token"
	CookieRefreshToken = "logitrack_refresh_token"
	CookieUser         = "logitrack_user"
)

type Store struct {
	c       echo.Context
	pending *store.Snapshot
	cleared bool
}

func New(c echo.Context) *Store { return &Store{c: c} }

func (s *Store) Save(user models.User, access, refresh string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	accessExp := tokens.ExpiryOrDefault(access, tokens.AccessTTL)
	refreshExp := tokens.ExpiryOrDefault(refresh, tokens.RefreshTTL)

	s.c.SetCookie(newCookie(CookieToken, access, accessExp))
	s.c.SetCookie(newCookie(CookieRefreshToken, refresh, refreshExp))
	s.c.SetCookie(newCookie(CookieUser, base64.RawURLEncoding.EncodeToString(raw), refreshExp))

	s.pending = &store.Snapshot{Access: access, Refresh: refresh, User: user}
	s.cleared = false
	return nil
}

func (s *Store) Load() (store.Snapshot, bool, error) {
	if s.cleared {
		return store.Snapshot{}, false, nil
	}
	if s.pending != nil {
		return *s.pending, true, nil
	}

	snap := store.Snapshot{
		Access:  s.cookieValue(CookieToken),
		Refresh: s.cookieValue(CookieRefreshToken),
	}
	if snap.Access == "" {
		return store.Snapshot{}, false, nil
	}
	// An unreadable user cookie is a cache miss, not a broken session.
	if encoded := s.cookieValue(CookieUser); encoded != "" {
		if raw, err := base64.RawURLEncoding.DecodeString(encoded); err == nil {
			var user models.User
			if json.Unmarshal(raw, &user) == nil {
				snap.User = user
			}
		}
	}
	return snap, true, nil
}

func (s *Store) Clear() error {
	s.c.SetCookie(deleteCookie(CookieToken))
	s.c.SetCookie(deleteCookie(CookieRefreshToken))
	s.c.SetCookie(deleteCookie(CookieUser))
	s.pending = nil
	s.cleared = true
	return nil
}

func (s *Store) HasToken() bool {
	if s.cleared {
		return false
	}
	if s.pending != nil {
		return s.pending.Access != ""
	}
	return s.cookieValue(CookieToken) != ""
}

// HasToken is the request-level presence check route guards run
// before any Store exists for the request.
func HasToken(c echo.Context) bool {
	cookie, err := c.Cookie(CookieToken)
	return err == nil && cookie.Value != ""
}

func (s *Store) cookieValue(name string) string {
	cookie, err := s.c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func newCookie(name, value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func deleteCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
