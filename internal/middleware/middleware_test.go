package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"troopsite/internal/sessionstore"
)

const cookieName = "troop.sid"

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(password string) error {
	args := m.Called(password)
	return args.Error(0)
}

func (m *MockAuthService) CheckAPIKey(key string) bool {
	args := m.Called(key)
	return args.Bool(0)
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func newStore() *sessionstore.Store {
	return sessionstore.New(sessionstore.NewMemoryBackend(), &sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
	}, []byte("middleware-secret"))
}

// sessionCookie saves a session with the given admin flag and returns its cookie.
func sessionCookie(t *testing.T, store *sessionstore.Store, admin bool) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()

	session, err := store.Get(req, cookieName)
	require.NoError(t, err)
	session.Values[sessionstore.AdminKey] = admin
	require.NoError(t, session.Save(req, rec))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestRequireAdmin(t *testing.T) {
	store := newStore()

	tests := []struct {
		name       string
		cookie     *http.Cookie
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "no cookie",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "non admin session",
			cookie:     sessionCookie(t, store, false),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "forged cookie",
			cookie:     &http.Cookie{Name: cookieName, Value: "forged"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin session",
			cookie:     sessionCookie(t, store, true),
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := RequireAdmin(store, cookieName)(okHandler(&called))

			req := httptest.NewRequest(http.MethodPost, "/api/announcement", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			if !tt.wantCalled {
				assert.Contains(t, rec.Body.String(), "Admin access required")
			}
		})
	}
}

func TestRequireAdmin_RefreshesCookie(t *testing.T) {
	store := newStore()
	cookie := sessionCookie(t, store, true)

	called := false
	h := RequireAdmin(store, cookieName)(okHandler(&called))

	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.True(t, called)
	refreshed := rec.Result().Cookies()
	require.Len(t, refreshed, 1)
	assert.Equal(t, cookieName, refreshed[0].Name)
	assert.Equal(t, 3600, refreshed[0].MaxAge)
}

func TestRequireAPIKey(t *testing.T) {
	auth := new(MockAuthService)
	auth.On("CheckAPIKey", "good").Return(true)
	auth.On("CheckAPIKey", mock.Anything).Return(false)

	for key, want := range map[string]int{
		"good": http.StatusOK,
		"bad":  http.StatusUnauthorized,
		"":     http.StatusUnauthorized,
	} {
		called := false
		h := RequireAPIKey(auth)(okHandler(&called))

		req := httptest.NewRequest(http.MethodGet, "/api/uploads", nil)
		if key != "" {
			req.Header.Set(APIKeyHeader, key)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, want, rec.Code, "key %q", key)
		assert.Equal(t, want == http.StatusOK, called, "key %q", key)
	}
}

func TestCORSMiddleware(t *testing.T) {
	called := false
	h := CORSMiddleware([]string{"http://troop423-admin-site.netlify.app"})(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/announcement", nil)
	req.Header.Set("Origin", "http://troop423-admin-site.netlify.app")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, "http://troop423-admin-site.netlify.app", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/announcement", nil)
	req.Header.Set("Origin", "http://elsewhere.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_EmptyOriginsAllowNothing(t *testing.T) {
	for _, origins := range [][]string{nil, {}} {
		called := false
		h := CORSMiddleware(origins)(okHandler(&called))

		req := httptest.NewRequest(http.MethodGet, "/api/announcement", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))

		req = httptest.NewRequest(http.MethodOptions, "/login", nil)
		req.Header.Set("Origin", "http://evil.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestChain(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), tag("inner"), tag("outer"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "outer,inner,handler", strings.Join(order, ","))
}

func TestLoggingMiddleware_KeepsStatus(t *testing.T) {
	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
