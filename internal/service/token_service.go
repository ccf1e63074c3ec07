package service

import (
	"context"
	"course_admin_gateway/internal/backend"
	"course_admin_gateway/internal/config"
	"course_admin_gateway/internal/util"
	"course_admin_gateway/pkg/logger"
	"course_admin_gateway/pkg/monitoring"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	loginPath        = "/Auth/login"
	DefaultBuffer    = 5 * time.Minute
	DefaultTokenTTL  = time.Hour
	tokenFlightKey   = "admin-token"
	TokenStateEmpty  = "empty"
	TokenStateCached = "cached"
	TokenStateStale  = "stale"
)

// AdminTokenService hands out the bearer token used for admin calls to the
// backend. It logs in once and reuses the token until it is within buffer
// of expiring. Concurrent callers that find no usable token share a single
// login.
type AdminTokenService struct {
	client     *backend.Client
	store      TokenStore
	buffer     time.Duration
	defaultTTL time.Duration
	now        func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	email    string
	password string
}

func NewAdminTokenService(client *backend.Client, store TokenStore, backendCfg config.BackendConfig, tokenCfg config.TokenConfig) *AdminTokenService {
	buffer := tokenCfg.Buffer
	if buffer < 0 {
		buffer = DefaultBuffer
	}
	ttl := tokenCfg.DefaultTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AdminTokenService{
		client:     client,
		store:      store,
		buffer:     buffer,
		defaultTTL: ttl,
		now:        time.Now,
		email:      backendCfg.AdminEmail,
		password:   backendCfg.AdminPassword,
	}
}

type loginRequest struct {
	Email    string `json:"Email"`
	Password string `json:"Password"`
}

// Token returns a usable admin token, logging in when none is cached or the
// cached one is inside the expiry buffer.
func (s *AdminTokenService) Token(ctx context.Context) (string, error) {
	if token, ok := s.usable(ctx); ok {
		return token, nil
	}

	// the login outlives a single caller giving up
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(tokenFlightKey, func() (interface{}, error) {
		if token, ok := s.usable(flightCtx); ok {
			return token, nil
		}
		return s.login(flightCtx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Do runs fn with an admin token. If the backend rejects the token with a
// 401 anyway (revoked, clock skew), the cache is dropped and fn gets one
// more try with a fresh token.
func (s *AdminTokenService) Do(ctx context.Context, fn func(token string) error) error {
	token, err := s.Token(ctx)
	if err != nil {
		return err
	}
	err = fn(token)
	if !util.IsStatus(err, http.StatusUnauthorized) {
		return err
	}

	logger.Log.Warn("Backend rejected cached admin token, logging in again")
	if clearErr := s.Clear(ctx); clearErr != nil {
		logger.Log.Error("Failed to clear admin token", zap.Error(clearErr))
	}
	token, err = s.Token(ctx)
	if err != nil {
		return err
	}
	return fn(token)
}

// Clear drops the cached token; the next Token call logs in.
func (s *AdminTokenService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// SetCredentials swaps the admin login used for future logins. A change
// invalidates the cached token.
func (s *AdminTokenService) SetCredentials(ctx context.Context, email, password string) {
	s.mu.Lock()
	changed := s.email != email || s.password != password
	s.email, s.password = email, password
	s.mu.Unlock()

	if changed {
		logger.Log.Info("Admin credentials changed, dropping cached token")
		if err := s.Clear(ctx); err != nil {
			logger.Log.Error("Failed to clear admin token", zap.Error(err))
		}
	}
}

type TokenStatus struct {
	State     string     `json:"state"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (s *AdminTokenService) Status(ctx context.Context) (TokenStatus, error) {
	token, ok, err := s.store.Load(ctx)
	if err != nil {
		return TokenStatus{}, err
	}
	if !ok {
		return TokenStatus{State: TokenStateEmpty}, nil
	}
	expiresAt := token.ExpiresAt
	state := TokenStateCached
	if !s.fresh(token) {
		state = TokenStateStale
	}
	return TokenStatus{State: state, ExpiresAt: &expiresAt}, nil
}

func (s *AdminTokenService) fresh(token CachedToken) bool {
	return token.Value != "" && s.now().Before(token.ExpiresAt.Add(-s.buffer))
}

func (s *AdminTokenService) usable(ctx context.Context) (string, bool) {
	token, ok, err := s.store.Load(ctx)
	if err != nil {
		logger.Log.Warn("Failed to read cached admin token", zap.Error(err))
		return "", false
	}
	if !ok || !s.fresh(token) {
		return "", false
	}
	return token.Value, true
}

func (s *AdminTokenService) credentials() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email, s.password
}

func (s *AdminTokenService) usableExpiry(t time.Time) bool {
	return !t.IsZero() && t.After(s.now().Add(s.buffer))
}

func (s *AdminTokenService) login(ctx context.Context) (string, error) {
	email, password := s.credentials()
	if email == "" || password == "" {
		monitoring.TokenLogins.WithLabelValues("failure").Inc()
		return "", &util.AuthenticationError{Message: util.ErrMissingCredentials.Error(), Err: util.ErrMissingCredentials}
	}

	resp, err := s.client.Do(ctx, &backend.Request{
		Method: http.MethodPost,
		Path:   loginPath,
		JSON:   loginRequest{Email: email, Password: password},
	})
	if err != nil {
		monitoring.TokenLogins.WithLabelValues("failure").Inc()
		return "", &util.AuthenticationError{Message: err.Error(), Err: err}
	}
	if !resp.OK() {
		monitoring.TokenLogins.WithLabelValues("failure").Inc()
		msg := backend.Message(backend.Decode(resp.Body), resp.Status)
		logger.Log.Error("Admin login rejected", zap.Int("status", resp.Status), zap.String("message", msg))
		return "", &util.AuthenticationError{Message: msg}
	}

	value, expiresAt := parseLoginResponse(resp.Body, s.now())
	if value == "" {
		monitoring.TokenLogins.WithLabelValues("failure").Inc()
		return "", &util.AuthenticationError{Message: util.ErrEmptyToken.Error(), Err: util.ErrEmptyToken}
	}
	// An expiry already inside the buffer (a TTL sent in an expiry field
	// reads as 1970) would force a login on every call.
	if !s.usableExpiry(expiresAt) {
		expiresAt = jwtExpiry(value)
	}
	if !s.usableExpiry(expiresAt) {
		expiresAt = s.now().Add(s.defaultTTL)
	}

	if err := s.store.Save(ctx, CachedToken{Value: value, ExpiresAt: expiresAt}); err != nil {
		// still usable for this request
		logger.Log.Error("Failed to store admin token", zap.Error(err))
	}
	monitoring.TokenLogins.WithLabelValues("success").Inc()
	logger.Log.Info("Admin token acquired", zap.Time("expiresAt", expiresAt))
	return value, nil
}

var (
	tokenKeys  = []string{"token", "accessToken", "access_token", "jwtToken", "jwt"}
	expiryKeys = []string{"expiration", "expiresAt", "expires", "expiry", "expireDate"}
	ttlKeys    = []string{"expiresIn", "expires_in"}
)

// parseLoginResponse pulls the token and, if present, its expiry out of the
// login body. The backend has answered with a bare token, with
// {"token", "expiration"} and with the same wrapped in "data".
func parseLoginResponse(body []byte, now time.Time) (string, time.Time) {
	decoded := backend.Decode(body)
	switch decoded.Kind {
	case backend.KindText:
		if looksLikeJWT(decoded.Text) {
			return decoded.Text, time.Time{}
		}
		return "", time.Time{}
	case backend.KindJSON:
		return tokenFromJSON(decoded.JSON, now)
	}
	return "", time.Time{}
}

func tokenFromJSON(v interface{}, now time.Time) (string, time.Time) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), time.Time{}
	case map[string]interface{}:
		var token string
		for _, key := range tokenKeys {
			if s, ok := lookupString(t, key); ok && s != "" {
				token = s
				break
			}
		}
		if token == "" {
			for _, key := range []string{"data", "result"} {
				if inner := lookupValue(t, key); inner != nil {
					if tok, exp := tokenFromJSON(inner, now); tok != "" {
						return tok, exp
					}
				}
			}
			return "", time.Time{}
		}
		for _, key := range expiryKeys {
			if exp := parseExpiry(lookupValue(t, key)); !exp.IsZero() {
				return token, exp
			}
		}
		for _, key := range ttlKeys {
			if n, ok := lookupValue(t, key).(float64); ok && n > 0 {
				return token, now.Add(time.Duration(n) * time.Second)
			}
		}
		return token, time.Time{}
	}
	return "", time.Time{}
}

var expiryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseExpiry accepts RFC 3339 strings, zone-less .NET timestamps (read as
// UTC), and epoch numbers in milliseconds or seconds.
func parseExpiry(v interface{}) time.Time {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range expiryLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts
			}
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return epoch(n)
		}
	case float64:
		return epoch(int64(t))
	}
	return time.Time{}
}

func epoch(n int64) time.Time {
	if n <= 0 {
		return time.Time{}
	}
	if n > 1e12 {
		return time.UnixMilli(n)
	}
	return time.Unix(n, 0)
}

func looksLikeJWT(s string) bool {
	return strings.Count(s, ".") == 2 && !strings.ContainsAny(s, " \n\t")
}

// jwtExpiry reads the exp claim without verifying the signature; the token
// is only ever sent back to the backend that issued it.
func jwtExpiry(token string) time.Time {
	if !looksLikeJWT(token) {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func lookupValue(m map[string]interface{}, key string) interface{} {
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

func lookupString(m map[string]interface{}, key string) (string, bool) {
	s, ok := lookupValue(m, key).(string)
	return s, ok
}
