package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
	"github.com/Guyuepp/Go-Comment-Moderation/internal/rest/middleware"
)

const secret = "s3cret"

type usersFunc func(ctx context.Context, id int64) (domain.User, error)

func (f usersFunc) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return f(ctx, id)
}

func newEngine(users domain.UserRepository, auth gin.HandlerFunc) (*gin.Engine, **domain.User) {
	gin.SetMode(gin.TestMode)
	var seen *domain.User
	r := gin.New()
	r.Use(auth, middleware.LoadActor(users))
	r.GET("/whoami", func(c *gin.Context) {
		seen = middleware.Actor(c)
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func get(r http.Handler, authorization string) int {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestParseToken(t *testing.T) {
	token, err := middleware.GenerateToken(secret, 42, []string{"admin"}, time.Minute)
	require.NoError(t, err)

	claims, err := middleware.ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, []string{"admin"}, claims.Permissions)

	_, err = middleware.ParseToken("other", token)
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)

	expired, err := middleware.GenerateToken(secret, 42, nil, -time.Minute)
	require.NoError(t, err)
	_, err = middleware.ParseToken(secret, expired)
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, middleware.Claims{UserID: 42})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = middleware.ParseToken(secret, unsigned)
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)
}

func TestOptionalAuthAndLoadActor(t *testing.T) {
	users := usersFunc(func(_ context.Context, id int64) (domain.User, error) {
		switch id {
		case 1:
			return domain.User{ID: 1, Name: "Ada"}, nil
		case 2:
			return domain.User{}, errors.New("too many connections")
		}
		return domain.User{}, domain.ErrNotFound
	})
	r, seen := newEngine(users, middleware.OptionalAuth(secret))

	assert.Equal(t, http.StatusOK, get(r, ""))
	assert.Nil(t, *seen)

	token, _ := middleware.GenerateToken(secret, 1, []string{"moderate comments"}, time.Minute)
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+token))
	require.NotNil(t, *seen)
	assert.Equal(t, "Ada", (*seen).Name)
	assert.Equal(t, []string{"moderate comments"}, (*seen).Permissions)

	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer garbage"))
	assert.Equal(t, http.StatusUnauthorized, get(r, "Basic "+token))

	unknown, _ := middleware.GenerateToken(secret, 3, nil, time.Minute)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+unknown))

	broken, _ := middleware.GenerateToken(secret, 2, nil, time.Minute)
	assert.Equal(t, http.StatusInternalServerError, get(r, "Bearer "+broken))
}

func TestAuthMiddleware(t *testing.T) {
	users := usersFunc(func(_ context.Context, id int64) (domain.User, error) {
		return domain.User{ID: id}, nil
	})
	r, seen := newEngine(users, middleware.AuthMiddleware(secret))

	assert.Equal(t, http.StatusUnauthorized, get(r, ""))

	token, _ := middleware.GenerateToken(secret, 5, nil, time.Minute)
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+token))
	require.NotNil(t, *seen)
	assert.Nil(t, (*seen).Permissions)
}

func TestCORSAndTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CORS(), middleware.SetRequestContextWithTimeout(time.Second))
	r.GET("/deadline", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/deadline", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/deadline", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
