package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewManager(NewRedisStore(client), "test-secret", time.Hour), mr
}

func startSession(t *testing.T, m *Manager, id Identity) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, m.Start(context.Background(), rec, id))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestManager_StartAndResolve(t *testing.T) {
	m, mr := newTestManager(t)
	want := Identity{Role: RoleCustomer, ID: 7, Username: "alice"}

	cookie := startSession(t, m, want)
	assert.Equal(t, DefaultCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Len(t, mr.Keys(), 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	got, err := m.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestManager_ResolveRejectsBadCookies(t *testing.T) {
	m, _ := newTestManager(t)
	other := NewManager(m.store, "another-secret", time.Hour)
	forged := startSession(t, other, Identity{Role: RoleRestaurant, ID: 1})

	tests := []struct {
		name    string
		cookie  *http.Cookie
		wantErr error
	}{
		{name: "no_cookie", cookie: nil, wantErr: ErrNoSession},
		{name: "garbage", cookie: &http.Cookie{Name: DefaultCookieName, Value: "not-a-token"}, wantErr: ErrInvalidToken},
		{name: "wrong_signature", cookie: forged, wantErr: ErrInvalidToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			_, err := m.Resolve(req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestManager_ResolveExpiredSession(t *testing.T) {
	m, mr := newTestManager(t)
	cookie := startSession(t, m, Identity{Role: RoleCustomer, ID: 3})

	mr.FastForward(2 * time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	_, err := m.Resolve(req)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_End(t *testing.T) {
	m, mr := newTestManager(t)
	cookie := startSession(t, m, Identity{Role: RoleRestaurant, ID: 9})

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()

	require.NoError(t, m.End(rec, req))
	assert.Empty(t, mr.Keys())

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)

	_, err := m.Resolve(req)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_Gate(t *testing.T) {
	m, _ := newTestManager(t)
	cookie := startSession(t, m, Identity{Role: RoleRestaurant, ID: 4, Username: "pizza"})

	var seen []int
	handler := m.Gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := CurrentRestaurantID(r.Context())
		if ok {
			seen = append(seen, id)
		}
		_, isCustomer := CurrentCustomerID(r.Context())
		assert.False(t, isCustomer)
	}))

	withCookie := httptest.NewRequest(http.MethodGet, "/", nil)
	withCookie.AddCookie(cookie)
	handler.ServeHTTP(httptest.NewRecorder(), withCookie)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []int{4}, seen)
}
