package restclient

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/restbase/logger"
)

// BearerAuth sets "Authorization: Bearer <token>".
func BearerAuth(token string) RequestHook {
	return func(req *http.Request) {
		SetAuthorization(req, "Bearer "+token)
	}
}

// BasicAuth sets HTTP Basic credentials.
func BasicAuth(username, password string) RequestHook {
	creds := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return func(req *http.Request) {
		SetAuthorization(req, "Basic "+creds)
	}
}

// APIKeyAuth sends key in the named header, X-API-Key when header is empty.
func APIKeyAuth(header, key string) RequestHook {
	if header == "" {
		header = "X-API-Key"
	}
	return func(req *http.Request) {
		req.Header.Set(header, key)
	}
}

// APIKeyQuery sends key as the named query parameter.
func APIKeyQuery(param, key string) RequestHook {
	return WithQuery(param, key)
}

// JWTConfig configures a JWTSigner.
type JWTConfig struct {
	// Method is the signing algorithm name. Defaults to HS256.
	Method string `yaml:"method" mapstructure:"method"`
	// Key is the signing key: []byte for HMAC, a private key otherwise.
	Key any `yaml:"-" mapstructure:"-"`
	// Issuer fills the iss claim.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`
	// Subject fills the sub claim.
	Subject string `yaml:"subject" mapstructure:"subject"`
	// Audience fills the aud claim.
	Audience []string `yaml:"audience" mapstructure:"audience"`
	// TTL is the token lifetime. Defaults to 5 minutes.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// JWTSigner mints short-lived tokens and reuses each one until shortly
// before it expires. It is safe for concurrent use.
type JWTSigner struct {
	method jwt.SigningMethod
	cfg    JWTConfig
	now    func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewJWTSigner validates cfg by signing a first token.
func NewJWTSigner(cfg JWTConfig) (*JWTSigner, error) {
	if cfg.Method == "" {
		cfg.Method = jwt.SigningMethodHS256.Alg()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	method := jwt.GetSigningMethod(cfg.Method)
	if method == nil {
		return nil, configError("jwt: unknown signing method %q", cfg.Method)
	}
	s := &JWTSigner{method: method, cfg: cfg, now: time.Now}
	if _, err := s.Token(); err != nil {
		return nil, configError("%w", err)
	}
	return s, nil
}

// Token returns a valid signed token, minting a new one when the cached
// token has less than a tenth of its lifetime left.
func (s *JWTSigner) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Add(s.cfg.TTL/10).Before(s.expires) {
		return s.token, nil
	}

	expires := now.Add(s.cfg.TTL)
	claims := jwt.RegisteredClaims{
		Issuer:    s.cfg.Issuer,
		Subject:   s.cfg.Subject,
		Audience:  s.cfg.Audience,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.cfg.Key)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	s.token, s.expires = signed, expires
	return signed, nil
}

// JWTAuth sets a bearer token minted by s. When signing fails the request
// is sent without Authorization and the failure is logged on the logger
// of the client sending it.
func JWTAuth(s *JWTSigner) RequestHook {
	return func(req *http.Request) {
		token, err := s.Token()
		if err != nil {
			requestLogger(req).Warn("jwt signing failed", logger.ErrorFields(err))
			return
		}
		SetAuthorization(req, "Bearer "+token)
	}
}
