package restclient

import (
	"net/http"
)

// SetAuthorization replaces the Authorization header of req with value.
// Applying it twice leaves a single value.
func SetAuthorization(req *http.Request, value string) {
	req.Header.Del("Authorization")
	req.Header.Add("Authorization", value)
}

// SetUserAgent replaces the User-Agent header of req with value.
func SetUserAgent(req *http.Request, value string) {
	req.Header.Del("User-Agent")
	req.Header.Add("User-Agent", value)
}
