package middleware

import (
	"strings"

	"cinephoria/internal/shared/apperrors"
	"cinephoria/internal/shared/utils/response"
	"cinephoria/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	PrincipalKey = "principal"
	GuestHeader  = "X-Guest-ID"
)

// Principal is the caller identity resolved once per request.
// UserID is nil for anonymous callers; GuestID is set when the client supplied one.
type Principal struct {
	UserID  *uuid.UUID
	Email   string
	Role    string
	GuestID string
}

// Authenticated reports whether the request carried a valid access token
func (p Principal) Authenticated() bool {
	return p.UserID != nil
}

// ResolvePrincipal verifies an optional bearer token and an optional guest id and stores
// the resulting Principal on the context. Missing credentials yield an anonymous principal;
// malformed ones are rejected.
func ResolvePrincipal(secret string) gin.HandlerFunc {
	log := logger.GetDefault()

	return func(c *gin.Context) {
		var p Principal

		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			claims, err := parseAccessToken(authHeader, secret)
			if err != nil {
				log.LogAuthFailure(c.Request.Context(), err.Error(), c.ClientIP())
				response.RespondError(c, "Invalid credentials", err)
				c.Abort()
				return
			}
			p.UserID = &claims.userID
			p.Email = claims.email
			p.Role = claims.role
		}

		guestID := c.GetHeader(GuestHeader)
		if guestID == "" {
			guestID = c.Query("guest_id")
		}
		if guestID != "" {
			parsed, err := uuid.Parse(guestID)
			if err != nil {
				response.RespondError(c, "Invalid guest ID", apperrors.Validation("guest_id must be a UUID"))
				c.Abort()
				return
			}
			// every accepted spelling maps to one cart
			p.GuestID = parsed.String()
		}

		c.Set(PrincipalKey, p)
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by ResolvePrincipal, or an anonymous one.
func PrincipalFrom(c *gin.Context) Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(Principal); ok {
			return p
		}
	}
	return Principal{}
}

// RequireRole checks that the principal is authenticated with one of roles.
func RequireRole(p Principal, roles ...string) error {
	if !p.Authenticated() {
		return apperrors.New(apperrors.KindUnauthorized, "authentication required")
	}
	for _, role := range roles {
		if p.Role == role {
			return nil
		}
	}
	return apperrors.New(apperrors.KindForbidden, "insufficient permissions")
}

type accessClaims struct {
	userID uuid.UUID
	email  string
	role   string
}

func parseAccessToken(authHeader, secret string) (*accessClaims, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, apperrors.New(apperrors.KindUnauthorized, "authorization header format must be Bearer {token}")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.New(apperrors.KindUnauthorized, "invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.New(apperrors.KindUnauthorized, "invalid token claims")
	}
	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return nil, apperrors.New(apperrors.KindUnauthorized, "invalid token type")
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, apperrors.New(apperrors.KindUnauthorized, "invalid user id in token")
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = RoleUser
	}
	email, _ := claims["email"].(string)

	return &accessClaims{userID: userID, email: email, role: role}, nil
}

// RequestID assigns each request an id, reusing X-Request-ID when the client sent one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(logger.RequestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
