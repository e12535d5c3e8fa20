package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

const (
	ContextUserID      = "user_id"
	ContextPermissions = "permissions"
	ContextActor       = "actor"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carried by access tokens. Permissions is optional; when present it is
// the user's capability bundle.
type Claims struct {
	UserID      int64    `json:"user_id"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, userID int64, permissions []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:      userID,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ParseToken(secret, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// OptionalAuth reads a bearer token if one is sent. Requests without one pass
// through anonymously; a malformed or expired token is rejected.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": ErrInvalidToken.Error()})
			return
		}
		claims, err := ParseToken(secret, strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		if claims.Permissions != nil {
			c.Set(ContextPermissions, claims.Permissions)
		}
		c.Next()
	}
}

// AuthMiddleware requires a valid bearer token
func AuthMiddleware(secret string) gin.HandlerFunc {
	optional := OptionalAuth(secret)
	return func(c *gin.Context) {
		optional(c)
		if c.IsAborted() {
			return
		}
		if _, exists := c.Get(ContextUserID); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": domain.ErrUnauthenticated.Error()})
		}
	}
}

// LoadActor turns the authenticated user id into the acting *domain.User.
func LoadActor(users domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID)
		if !exists {
			c.Next()
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID.(int64))
		if errors.Is(err, domain.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": domain.ErrUnauthenticated.Error()})
			return
		}
		if err != nil {
			logrus.Errorf("failed to load user %v: %v", userID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": domain.ErrInternalServerError.Error()})
			return
		}
		if perms, ok := c.Get(ContextPermissions); ok {
			user.Permissions = perms.([]string)
		}

		c.Set(ContextActor, &user)
		c.Next()
	}
}

// Actor returns the user acting on the request, nil for anonymous callers.
func Actor(c *gin.Context) *domain.User {
	v, exists := c.Get(ContextActor)
	if !exists {
		return nil
	}
	actor, _ := v.(*domain.User)
	return actor
}
