package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fileflux/fileflux-manager-webapp/internal/domain/user"
	"github.com/fileflux/fileflux-manager-webapp/internal/utils/platformerrors"
)

// IdentityKey is the gin context key carrying the authenticated identity.
const IdentityKey = "identity"

// Validator authenticates HTTP Basic credentials against the user store.
type Validator struct {
	users *user.Service
	log   zerolog.Logger
}

func NewValidator(users *user.Service, log zerolog.Logger) *Validator {
	return &Validator{
		users: users,
		log:   log.With().Str("component", "auth").Logger(),
	}
}

// Middleware rejects the request early on authentication failure. On success
// the resolved identity is attached to the request context for the remainder
// of its processing; every ownership check downstream reads it from there.
func (v *Validator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok || username == "" || password == "" {
			v.log.Warn().Msg("authentication required but not provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		identity, err := v.users.Authenticate(c.Request.Context(), username, password)
		if err != nil {
			status := http.StatusForbidden
			message := "Invalid credentials"
			var platformErr *platformerrors.PlatformError
			if errors.As(err, &platformErr) {
				status = platformErr.HTTPStatus()
				if platformErr.Type == platformerrors.ErrorTypeDatabaseError || platformErr.Type == platformerrors.ErrorTypeInternal {
					platformerrors.LogError(v.log, platformErr)
					message = "Failed to authenticate"
				}
			}
			c.AbortWithStatusJSON(status, gin.H{"error": message})
			return
		}

		c.Set(IdentityKey, identity)
		c.Request = c.Request.WithContext(user.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// IdentityFrom returns the authenticated identity for the request.
func IdentityFrom(c *gin.Context) (user.Identity, bool) {
	return user.IdentityFromContext(c.Request.Context())
}
