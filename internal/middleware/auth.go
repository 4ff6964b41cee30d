package middleware

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/pte-scorer/config"
	"github.com/lshigami/pte-scorer/internal/apperr"
	"github.com/lshigami/pte-scorer/internal/controller"
)

const (
	ContextUserID    = "user_id"
	adminTokenHeader = "X-Admin-Token"
)

// Auth validates HS256 bearer tokens issued by the session service. The subject is the user id.
type Auth struct {
	secret     []byte
	adminToken string
}

func NewAuth(cfg *config.Config) *Auth {
	return &Auth{secret: []byte(cfg.Auth.JWTSecret), adminToken: cfg.Server.AdminToken}
}

// RequireUser rejects requests without a valid bearer token.
func (a *Auth) RequireUser() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, err := a.authenticate(ctx.GetHeader("Authorization"))
		if err != nil {
			controller.RespondError(ctx, err)
			return
		}
		ctx.Set(ContextUserID, userID)
		ctx.Next()
	}
}

// RequireAdmin checks the static admin token. An unset token disables admin routes.
func (a *Auth) RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		got := ctx.GetHeader(adminTokenHeader)
		if a.adminToken == "" || subtle.ConstantTimeCompare([]byte(got), []byte(a.adminToken)) != 1 {
			controller.RespondError(ctx, fmt.Errorf("%w: admin token required", apperr.ErrForbidden))
			return
		}
		ctx.Next()
	}
}

func (a *Auth) authenticate(header string) (string, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: missing bearer token", apperr.ErrUnauthenticated)
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", apperr.ErrUnauthenticated)
	}
	return claims.Subject, nil
}

// IssueToken signs a token for userID. Used by the dev token command and tests.
func (a *Auth) IssueToken(userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// UserID returns the authenticated user id set by RequireUser.
func UserID(ctx *gin.Context) string {
	return ctx.GetString(ContextUserID)
}
