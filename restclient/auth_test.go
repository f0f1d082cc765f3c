package restclient

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kbukum/restbase/logger"
	"github.com/kbukum/restbase/resttest"
)

func TestAuthHooks(t *testing.T) {
	srv := resttest.NewServer(t, nil)
	c := newTestClient(t, srv.URL+"/")

	tests := []struct {
		name   string
		hook   RequestHook
		header string
		want   string
	}{
		{"bearer", BearerAuth("tok"), "Authorization", "Bearer tok"},
		{"basic", BasicAuth("ada", "secret"), "Authorization", "Basic YWRhOnNlY3JldA=="},
		{"api key default header", APIKeyAuth("", "k1"), "X-API-Key", "k1"},
		{"api key custom header", APIKeyAuth("X-Token", "k2"), "X-Token", "k2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.Get(context.Background(), "", tt.hook, tt.hook)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			got := srv.Last().Header.Values(tt.header)
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("expected %q, got %v", tt.want, got)
			}
		})
	}
}

func TestAPIKeyQuery(t *testing.T) {
	srv := resttest.NewServer(t, nil)
	c := newTestClient(t, srv.URL+"/")

	resp, err := c.Get(context.Background(), "search?q=go", APIKeyQuery("api_key", "k3"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if q := srv.Last().Query; q != "q=go&api_key=k3" {
		t.Errorf("unexpected query %q", q)
	}
}

func TestJWTSigner(t *testing.T) {
	key := []byte("test-secret")
	s, err := NewJWTSigner(JWTConfig{Key: key, Issuer: "restbase", Subject: "svc-a", TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewJWTSigner: %v", err)
	}

	first, err := s.Token()
	if err != nil {
		t.Fatal(err)
	}
	second, _ := s.Token()
	if first != second {
		t.Error("token should be reused while fresh")
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(first, claims, func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Issuer != "restbase" || claims.Subject != "svc-a" {
		t.Errorf("unexpected claims %+v", claims)
	}

	s.now = func() time.Time { return time.Now().Add(time.Minute) }
	renewed, err := s.Token()
	if err != nil {
		t.Fatal(err)
	}
	if renewed == first {
		t.Error("expired token should be replaced")
	}
}

func TestNewJWTSigner_Invalid(t *testing.T) {
	if _, err := NewJWTSigner(JWTConfig{Method: "XX999", Key: []byte("k")}); !IsInvalidConfig(err) {
		t.Errorf("expected invalid config for unknown method, got %v", err)
	}
	if _, err := NewJWTSigner(JWTConfig{Key: "not-bytes"}); !IsInvalidConfig(err) {
		t.Errorf("expected invalid config for wrong key type, got %v", err)
	}
}

func TestJWTAuth(t *testing.T) {
	srv := resttest.NewServer(t, nil)
	c := newTestClient(t, srv.URL+"/")
	s, err := NewJWTSigner(JWTConfig{Key: []byte("k")})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := c.Get(context.Background(), "", JWTAuth(s))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := srv.Last().Header.Get("Authorization"); !strings.HasPrefix(got, "Bearer ey") {
		t.Errorf("expected bearer jwt, got %q", got)
	}
}

func TestRequestHooks(t *testing.T) {
	srv := resttest.NewServer(t, nil)
	c := newTestClient(t, srv.URL+"/")

	resp, err := c.Get(context.Background(), "items?page=1",
		Chain(WithRequestID(), WithHeader("X-Tenant", "acme"), WithQuery("limit", "10")))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	last := srv.Last()
	if _, err := uuid.Parse(last.Header.Get(HeaderRequestID)); err != nil {
		t.Errorf("expected uuid request id, got %q", last.Header.Get(HeaderRequestID))
	}
	if last.Header.Get("X-Tenant") != "acme" {
		t.Errorf("expected tenant header, got %q", last.Header.Get("X-Tenant"))
	}
	if last.Query != "page=1&limit=10" {
		t.Errorf("unexpected query %q", last.Query)
	}
}

func TestWithRequestID_KeepsExisting(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "https://api.example.com/", nil)
	req.Header.Set(HeaderRequestID, "given")
	WithRequestID()(req)
	if req.Header.Get(HeaderRequestID) != "given" {
		t.Error("existing request id must be kept")
	}
}

func TestJWTAuth_SigningFailureUsesClientLogger(t *testing.T) {
	var global bytes.Buffer
	prev := logger.GetGlobalLogger()
	logger.SetGlobalLogger(logger.New(&logger.Config{Level: "debug", Format: logger.FormatJSON, Writer: &global}, "global"))
	t.Cleanup(func() { logger.SetGlobalLogger(prev) })

	var own bytes.Buffer
	log := logger.New(&logger.Config{Level: "warn", Format: logger.FormatJSON, Writer: &own}, "client")

	srv := resttest.NewServer(t, nil)
	c, err := New(Config{BaseURL: srv.URL + "/"}, WithLogger(log))
	if err != nil {
		t.Fatal(err)
	}

	s, err := NewJWTSigner(JWTConfig{Key: []byte("k"), TTL: time.Minute})
	if err != nil {
		t.Fatal(err)
	}
	// Force a re-sign with a key of the wrong type.
	s.cfg.Key = "not-bytes"
	s.now = func() time.Time { return time.Now().Add(time.Hour) }

	resp, err := c.Get(context.Background(), "", JWTAuth(s))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := srv.Last().Header.Get("Authorization"); got != "" {
		t.Errorf("expected no Authorization on signing failure, got %q", got)
	}
	if !strings.Contains(own.String(), "jwt signing failed") {
		t.Errorf("expected failure on the client logger, got %q", own.String())
	}
	if strings.Contains(global.String(), "jwt signing failed") {
		t.Errorf("failure leaked to the global logger: %q", global.String())
	}
}

func TestJWTAuth_OutsideClientFallsBackToGlobal(t *testing.T) {
	var global bytes.Buffer
	prev := logger.GetGlobalLogger()
	logger.SetGlobalLogger(logger.New(&logger.Config{Level: "warn", Format: logger.FormatJSON, Writer: &global}, "global"))
	t.Cleanup(func() { logger.SetGlobalLogger(prev) })

	s, err := NewJWTSigner(JWTConfig{Key: []byte("k")})
	if err != nil {
		t.Fatal(err)
	}
	s.cfg.Key = 42
	s.now = func() time.Time { return time.Now().Add(time.Hour) }

	req, _ := http.NewRequest(http.MethodGet, "https://api.example.com/", nil)
	JWTAuth(s)(req)
	if !strings.Contains(global.String(), "jwt signing failed") {
		t.Errorf("expected failure on the global logger, got %q", global.String())
	}
}

func TestWithQuery_PreservesExistingQuery(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		param string
		value string
		want  string
	}{
		{"empty", "", "limit", "10", "limit=10"},
		{"keeps order and encoding", "b=%2F&a=1", "limit", "10", "b=%2F&a=1&limit=10"},
		{"replaces existing", "a=1&limit=5&b=2&limit=6", "limit", "10", "a=1&b=2&limit=10"},
		{"escapes value", "a=1", "q", "x y/z", "a=1&q=x+y%2Fz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "https://api.example.com/items", nil)
			req.URL.RawQuery = tt.raw
			WithQuery(tt.param, tt.value)(req)
			if req.URL.RawQuery != tt.want {
				t.Errorf("expected %q, got %q", tt.want, req.URL.RawQuery)
			}
		})
	}
}
