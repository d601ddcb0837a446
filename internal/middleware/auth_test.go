package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentloop/talentloop/internal/apperr"
	"github.com/talentloop/talentloop/internal/ctxkeys"
	"github.com/talentloop/talentloop/internal/model"
)

const testSecret = "test-secret"

type stubResolver struct {
	users map[string]*model.User
}

func (s *stubResolver) Resolve(userID string) (*model.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

func signToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func authedRequest(t *testing.T, resolver *stubResolver, authorization string) *model.Actor {
	t.Helper()

	var actor *model.Actor
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = ctxkeys.Actor(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/goals", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	AuthMiddleware(testSecret, resolver)(inner).ServeHTTP(httptest.NewRecorder(), req)
	return actor
}

func TestAuthMiddleware(t *testing.T) {
	resolver := &stubResolver{users: map[string]*model.User{
		"e1": {ID: "e1", Role: model.RoleEmployee, Status: model.UserStatusActive},
		"gone": {ID: "gone", Role: model.RoleEmployee, Status: model.UserStatusInactive},
	}}

	actor := authedRequest(t, resolver, "Bearer "+signToken(t, "e1"))
	require.NotNil(t, actor)
	assert.Equal(t, "e1", actor.ID)
	// Role comes from the user row, not the token.
	assert.Equal(t, model.RoleEmployee, actor.Role)

	assert.Nil(t, authedRequest(t, resolver, ""))
	assert.Nil(t, authedRequest(t, resolver, "Bearer not-a-token"))
	assert.Nil(t, authedRequest(t, resolver, "Bearer "+signToken(t, "unknown")))
	assert.Nil(t, authedRequest(t, resolver, "Bearer "+signToken(t, "gone")), "inactive users do not authenticate")

	// Token signed with the wrong key.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "e1"})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	assert.Nil(t, authedRequest(t, resolver, "Bearer "+signed))
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/goals", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/goals", nil)
	req = req.WithContext(ctxkeys.WithActor(req.Context(), &model.Actor{ID: "e1", Role: model.RoleEmployee}))
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
