// Package jwt provides a facility adapter that validates credentials as
// RSA-signed JWTs against a JWKS (JSON Web Key Set) endpoint, with
// configurable issuer, audience, and claim mapping.
//
// Settings come from the IRI_API_PARAMS document:
//
//	{"jwks_url": "https://idp/.well-known/jwks.json",
//	 "issuer": "https://idp", "audience": "iri",
//	 "user_claim": "sub", "name_claim": "name", "email_claim": "email"}
package jwt

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/iri-project/iri-gateway/pkg/facility"
)

// Module and Symbol form the registry locator "jwt.JWTAdapter".
const (
	Module = "jwt"
	Symbol = "JWTAdapter"
)

// params is the IRI_API_PARAMS shape for this adapter.
type params struct {
	JWKSURL     string `json:"jwks_url"`
	Issuer      string `json:"issuer"`
	Audience    string `json:"audience"`
	UserClaim   string `json:"user_claim"`   // default: "sub"
	NameClaim   string `json:"name_claim"`   // default: "name"
	EmailClaim  string `json:"email_claim"`  // default: "email"
	CacheTTLSec int    `json:"cache_ttl_s"`  // default: 3600
}

func (p *params) applyDefaults() {
	if p.UserClaim == "" {
		p.UserClaim = "sub"
	}
	if p.NameClaim == "" {
		p.NameClaim = "name"
	}
	if p.EmailClaim == "" {
		p.EmailClaim = "email"
	}
	if p.CacheTTLSec == 0 {
		p.CacheTTLSec = 3600
	}
}

// Adapter validates JWT credentials against a JWKS endpoint.
type Adapter struct {
	once    sync.Once
	loadErr error
	params  params
	cache   *jwksCache

	// httpClient is replaceable for tests. Nil means http.DefaultClient.
	httpClient *http.Client
}

var _ facility.Adapter = (*Adapter)(nil)

// New creates a JWT adapter. Params are loaded lazily on first use.
func New() *Adapter {
	return &Adapter{}
}

// Register adds the adapter to the registry under its locator.
func Register(r *facility.Registry) {
	r.MustRegister(Module, Symbol, func() any { return New() })
}

func (a *Adapter) load() error {
	a.once.Do(func() {
		var p params
		if err := facility.Params(&p); err != nil {
			a.loadErr = err
			return
		}
		p.applyDefaults()
		if p.JWKSURL == "" {
			a.loadErr = fmt.Errorf("%s: jwks_url is required for the jwt adapter", facility.ParamsEnv)
			return
		}

		client := a.httpClient
		if client == nil {
			client = http.DefaultClient
		}
		a.params = p
		a.cache = &jwksCache{
			keys:    make(map[string]*rsa.PublicKey),
			ttl:     time.Duration(p.CacheTTLSec) * time.Second,
			jwksURL: p.JWKSURL,
			client:  client,
		}
	})
	return a.loadErr
}

// ResolveIdentity validates the credential as an RSA-signed JWT and
// returns the configured user claim. The optional "Bearer " prefix on
// the raw header value is tolerated.
func (a *Adapter) ResolveIdentity(ctx context.Context, credential string, _ string) (string, error) {
	claims, err := a.verify(ctx, credential)
	if err != nil {
		return "", err
	}

	subject := claimString(claims, a.params.UserClaim)
	if subject == "" {
		return "", fmt.Errorf("JWT missing %q claim", a.params.UserClaim)
	}
	return subject, nil
}

// GetUser re-validates the credential and builds the profile from the
// token's own claims; no external user store is consulted.
func (a *Adapter) GetUser(ctx context.Context, userID string, credential string) (*facility.User, error) {
	claims, err := a.verify(ctx, credential)
	if err != nil {
		return nil, err
	}

	if got := claimString(claims, a.params.UserClaim); got != userID {
		return nil, fmt.Errorf("credential does not belong to user %q", userID)
	}

	return &facility.User{
		ID:    userID,
		Name:  claimString(claims, a.params.NameClaim),
		Email: claimString(claims, a.params.EmailClaim),
	}, nil
}

// verify parses and validates the token, returning its claims.
func (a *Adapter) verify(ctx context.Context, credential string) (jwtlib.MapClaims, error) {
	if err := a.load(); err != nil {
		return nil, err
	}

	tokenStr := strings.TrimPrefix(credential, "Bearer ")
	if tokenStr == "" {
		return nil, fmt.Errorf("empty bearer token")
	}

	token, err := jwtlib.Parse(tokenStr, func(token *jwtlib.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtlib.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, fmt.Errorf("token missing kid header")
		}

		key, fetchErr := a.cache.getKey(ctx, kid)
		if fetchErr != nil {
			return nil, fmt.Errorf("fetching JWKS key for kid %q: %w", kid, fetchErr)
		}
		return key, nil
	}, a.parserOptions()...)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT: %w", err)
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid JWT claims")
	}
	return claims, nil
}

// parserOptions builds JWT parser options based on the params.
func (a *Adapter) parserOptions() []jwtlib.ParserOption {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
	}
	if a.params.Issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(a.params.Issuer))
	}
	if a.params.Audience != "" {
		opts = append(opts, jwtlib.WithAudience(a.params.Audience))
	}
	return opts
}

// claimString extracts a string value from JWT claims.
// Returns empty string if the claim is missing or not a string.
func claimString(claims jwtlib.MapClaims, key string) string {
	val, ok := claims[key]
	if !ok {
		return ""
	}
	s, ok := val.(string)
	if !ok {
		return ""
	}
	return s
}

// jwksCache caches RSA public keys fetched from a JWKS endpoint.
// It is thread-safe and supports TTL-based cache invalidation.
type jwksCache struct {
	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey // kid -> public key
	fetchedAt time.Time
	ttl       time.Duration
	jwksURL   string
	client    *http.Client
}

// getKey returns the RSA public key for the given kid, refreshing from
// the JWKS endpoint when the cache is expired or the kid is unknown.
func (c *jwksCache) getKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	if key, ok := c.keys[kid]; ok && time.Since(c.fetchedAt) < c.ttl {
		c.mu.RUnlock()
		return key, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring the write lock.
	if key, ok := c.keys[kid]; ok && time.Since(c.fetchedAt) < c.ttl {
		return key, nil
	}

	if err := c.fetchJWKS(ctx); err != nil {
		return nil, err
	}

	key, ok := c.keys[kid]
	if !ok {
		return nil, fmt.Errorf("key %q not found in JWKS", kid)
	}
	return key, nil
}

// fetchJWKS fetches the JWKS document and repopulates the key cache.
// Must be called with the write lock held.
func (c *jwksCache) fetchJWKS(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("creating JWKS request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading JWKS response: %w", err)
	}

	var jwks jwksDocument
	if err := json.Unmarshal(body, &jwks); err != nil {
		return fmt.Errorf("parsing JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, jwk := range jwks.Keys {
		if jwk.Kty != "RSA" {
			continue
		}
		if jwk.Use != "" && jwk.Use != "sig" {
			continue
		}

		pubKey, err := parseRSAPublicKey(jwk)
		if err != nil {
			slog.Warn("skipping JWKS key", "kid", jwk.Kid, "error", err)
			continue
		}
		keys[jwk.Kid] = pubKey
	}

	c.keys = keys
	c.fetchedAt = time.Now()

	slog.Debug("JWKS cache refreshed", "keys", len(keys), "url", c.jwksURL)
	return nil
}

// jwksDocument represents the JSON Web Key Set response.
type jwksDocument struct {
	Keys []jwkKey `json:"keys"`
}

// jwkKey represents a single JSON Web Key.
type jwkKey struct {
	Kty string `json:"kty"` // Key type (e.g., "RSA")
	Kid string `json:"kid"` // Key ID
	Use string `json:"use"` // Key use (e.g., "sig")
	N   string `json:"n"`   // RSA modulus (base64url-encoded)
	E   string `json:"e"`   // RSA public exponent (base64url-encoded)
}

// parseRSAPublicKey constructs an *rsa.PublicKey from a JWK.
func parseRSAPublicKey(jwk jwkKey) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, fmt.Errorf("decoding modulus: %w", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, fmt.Errorf("decoding exponent: %w", err)
	}

	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes)

	if !e.IsInt64() {
		return nil, fmt.Errorf("RSA exponent too large")
	}

	return &rsa.PublicKey{
		N: n,
		E: int(e.Int64()),
	}, nil
}
