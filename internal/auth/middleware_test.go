package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedProbe(t *testing.T) (http.Handler, *string) {
	t.Helper()
	var seenUserID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserID(r.Context())
		require.True(t, ok)
		seenUserID = userID
		w.WriteHeader(http.StatusOK)
	})
	return handler, &seenUserID
}

func TestRequireUser_ValidToken(t *testing.T) {
	service, _, _ := newAuthServiceFixture()
	user, err := service.Register(context.Background(), "jo@example.com", "password123")
	require.NoError(t, err)

	token, err := NewJWTManager("test-secret").GenerateAccessJWT(user.ID, time.Minute)
	require.NoError(t, err)

	probe, seenUserID := protectedProbe(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	service.RequireUser(probe).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	assert.Equal(t, user.ID, *seenUserID)
}

func TestRequireUser_MissingHeader(t *testing.T) {
	service, _, _ := newAuthServiceFixture()

	probe, _ := protectedProbe(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	service.RequireUser(probe).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestRequireUser_NotBearer(t *testing.T) {
	service, _, _ := newAuthServiceFixture()

	probe, _ := protectedProbe(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	service.RequireUser(probe).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestRequireUser_DeletedUser(t *testing.T) {
	service, users, _ := newAuthServiceFixture()
	user, err := service.Register(context.Background(), "jo@example.com", "password123")
	require.NoError(t, err)

	token, err := NewJWTManager("test-secret").GenerateAccessJWT(user.ID, time.Minute)
	require.NoError(t, err)
	delete(users.users, user.ID)

	probe, _ := protectedProbe(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	service.RequireUser(probe).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}
