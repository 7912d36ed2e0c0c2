package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"liferpg/internal/engine"
)

const userIDKey = "userId"

// loggingMiddleware writes one line per request.
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		if status >= 400 {
			ev = log.Warn()
		}
		if status >= 500 {
			ev = log.Error()
		}
		ev.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Str("user_id", c.GetString(userIDKey)).
			Msg("request")
	}
}

// authMiddleware resolves the acting user. With a secret it requires an HS256 bearer
// token whose subject is the user id; without one every request acts as the main user.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(s.secret) == 0 {
			u, err := s.svc.MainUser(c.Request.Context())
			if err != nil {
				_ = c.Error(err)
				c.Abort()
				return
			}
			c.Set(userIDKey, u.ID)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			_ = c.Error(unauthorized("authorization header required"))
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			_ = c.Error(unauthorized("invalid authorization header format"))
			c.Abort()
			return
		}

		userID, err := ValidateToken(s.secret, parts[1])
		if err != nil {
			_ = c.Error(unauthorized("invalid or expired token"))
			c.Abort()
			return
		}
		if _, err := s.svc.GetUser(c.Request.Context(), userID); err != nil {
			if errors.Is(err, engine.ErrNotFound) {
				err = unauthorized("user not found")
			}
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// SignToken issues an HS256 token for userID valid for ttl.
func SignToken(secret []byte, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Issuer:    "liferpg",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateToken checks signature and expiry and returns the subject.
func ValidateToken(secret []byte, tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}
