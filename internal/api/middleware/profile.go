package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ProfileHeader selects the profile explicitly.
	ProfileHeader = "X-Profile-ID"
	// ProfileCookie remembers the profile issued to a browser.
	ProfileCookie = "dashboard_profile"

	profileKey       = "profile_id"
	maxProfileLength = 128
	profileCookieAge = 365 * 24 * 60 * 60
)

// Profile resolves the caller's profile ID from the header, then the
// cookie. When neither is usable a new ID is issued as a cookie. The ID is
// always echoed in the response header.
func Profile() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(ProfileHeader)
		if !validProfileID(id) {
			id, _ = c.Cookie(ProfileCookie)
		}
		if !validProfileID(id) {
			id = uuid.New().String()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     ProfileCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   profileCookieAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		c.Set(profileKey, id)
		c.Header(ProfileHeader, id)
		c.Next()
	}
}

// ProfileID returns the profile resolved by Profile, or "".
func ProfileID(c *gin.Context) string {
	return c.GetString(profileKey)
}

func validProfileID(id string) bool {
	if id == "" || len(id) > maxProfileLength {
		return false
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return false
		}
	}
	return true
}
