// Package session resolves the acting principal of a request from a
// server-held session. The cookie carries only a signed opaque id; the
// identity itself lives in Redis.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultCookieName = "app_session"

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleRestaurant Role = "restaurant"
)

type Identity struct {
	Role     Role
	ID       int
	Username string
}

var (
	ErrNoSession    = errors.New("no active session")
	ErrInvalidToken = errors.New("invalid session token")
)

type Store interface {
	Save(ctx context.Context, sid string, id Identity, ttl time.Duration) error
	Load(ctx context.Context, sid string) (Identity, error)
	Delete(ctx context.Context, sid string) error
}

type Manager struct {
	store      Store
	secret     []byte
	ttl        time.Duration
	CookieName string
	Secure     bool
}

func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{
		store:      store,
		secret:     []byte(secret),
		ttl:        ttl,
		CookieName: DefaultCookieName,
	}
}

// Start creates a fresh session for id and writes the session cookie.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, id Identity) error {
	sid := uuid.NewString()
	if err := m.store.Save(ctx, sid, id, m.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) sessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(m.CookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrNoSession
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(cookie.Value, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}

// Resolve returns the identity bound to the request's session cookie.
func (m *Manager) Resolve(r *http.Request) (Identity, error) {
	sid, err := m.sessionID(r)
	if err != nil {
		return Identity{}, err
	}
	return m.store.Load(r.Context(), sid)
}

// End destroys the server-side session and expires the cookie. Ending a
// request without a session is not an error.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) error {
	defer http.SetCookie(w, &http.Cookie{
		Name:     m.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	sid, err := m.sessionID(r)
	if err != nil {
		return nil
	}
	return m.store.Delete(r.Context(), sid)
}

// Gate attaches the resolved identity to the request context when a valid
// session is present. Requests without one pass through anonymously.
func (m *Manager) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := m.Resolve(r); err == nil {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

func CurrentCustomerID(ctx context.Context) (int, bool) {
	return currentID(ctx, RoleCustomer)
}

func CurrentRestaurantID(ctx context.Context) (int, bool) {
	return currentID(ctx, RoleRestaurant)
}

func currentID(ctx context.Context, role Role) (int, bool) {
	id, ok := FromContext(ctx)
	if !ok || id.Role != role || id.ID <= 0 {
		return 0, false
	}
	return id.ID, true
}
