package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/service"
	"github.com/rs/zerolog/log"
)

const (
	GuestHeader = "X-Guest-ID"
	subjectKey  = "subject"

	maxGuestIDLen = 128
)

// Claims are issued by the external identity provider.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth identifies the caller from a bearer token or, failing that, the guest header.
func Auth(secret string, users service.UserService) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			claims := &Claims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
				log.Debug().Err(err).Msg("Rejected bearer token")
				abort(c, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			subject, err := users.Resolve(c.Request.Context(), service.UserSubject(claims.Subject, claims.Role))
			if err != nil {
				if errors.Is(err, service.ErrForbidden) {
					abort(c, http.StatusForbidden, "this account has been blocked")
					return
				}
				log.Error().Err(err).Str("sub", claims.Subject).Msg("Failed to resolve user")
				abort(c, http.StatusInternalServerError, "could not load your account")
				return
			}
			c.Set(subjectKey, subject)
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader(GuestHeader))
		if guestID == "" || len(guestID) > maxGuestIDLen {
			abort(c, http.StatusUnauthorized, "sign in or send "+GuestHeader)
			return
		}
		c.Set(subjectKey, service.GuestSubject(guestID))
		c.Next()
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Subject(c).IsAdmin() {
			abort(c, http.StatusForbidden, "admin role required")
			return
		}
		c.Next()
	}
}

// Subject returns the caller stored by Auth. It is the zero Subject when Auth did not run.
func Subject(c *gin.Context) service.Subject {
	v, ok := c.Get(subjectKey)
	if !ok {
		return service.Subject{}
	}
	s, _ := v.(service.Subject)
	return s
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Message: msg})
}
