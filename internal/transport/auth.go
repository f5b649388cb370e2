package transport

import (
	"encoding/base64"
	"net/http"

	"github.com/studiowebux/restengine/internal/types"
)

// ApplyAuth sets the Authorization header for the request's auth mode.
// It returns true when a header was set, so callers can skip a conflicting
// custom Authorization header.
func ApplyAuth(h http.Header, auth types.Auth) bool {
	switch auth.Mode {
	case types.AuthBasic:
		credentials := base64.StdEncoding.EncodeToString([]byte(auth.Username + ":" + auth.Password))
		h.Set("Authorization", "Basic "+credentials)
		return true
	case types.AuthBearer:
		h.Set("Authorization", "Bearer "+auth.Token)
		return true
	default:
		return false
	}
}
