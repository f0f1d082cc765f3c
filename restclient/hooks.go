package restclient

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// HeaderRequestID carries the request ID set by WithRequestID.
const HeaderRequestID = "X-Request-ID"

// WithHeader replaces header name with value.
func WithHeader(name, value string) RequestHook {
	return func(req *http.Request) {
		req.Header.Set(name, value)
	}
}

// WithQuery sets query parameter name to value. Earlier values of name
// are dropped; every other parameter keeps its position and encoding, and
// the new pair is appended.
func WithQuery(name, value string) RequestHook {
	pair := url.QueryEscape(name) + "=" + url.QueryEscape(value)
	return func(req *http.Request) {
		kept := make([]string, 0, 4)
		for part := range strings.SplitSeq(req.URL.RawQuery, "&") {
			if part == "" {
				continue
			}
			key, _, _ := strings.Cut(part, "=")
			if k, err := url.QueryUnescape(key); err == nil && k == name {
				continue
			}
			kept = append(kept, part)
		}
		req.URL.RawQuery = strings.Join(append(kept, pair), "&")
	}
}

// WithRequestID sets X-Request-ID to a new UUID unless one is present.
func WithRequestID() RequestHook {
	return func(req *http.Request) {
		if req.Header.Get(HeaderRequestID) == "" {
			req.Header.Set(HeaderRequestID, uuid.NewString())
		}
	}
}

// Chain combines hooks into one that runs them in order.
func Chain(hooks ...RequestHook) RequestHook {
	return func(req *http.Request) {
		for _, hook := range hooks {
			if hook != nil {
				hook(req)
			}
		}
	}
}
