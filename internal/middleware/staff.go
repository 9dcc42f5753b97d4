package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/unireg/registrar/internal/response"
	"github.com/unireg/registrar/internal/service"
)

// ContextKeyClaims is the Gin context key for staff JWT claims.
const ContextKeyClaims = "claims"

// TokenValidator parses staff tokens.
type TokenValidator interface {
	Validate(tokenStr string) (*service.Claims, error)
}

// RequireStaff validates the bearer token of staff routes. A nil validator
// leaves the routes open.
func RequireStaff(tokens TokenValidator, resp *response.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.Next()
			return
		}

		tokenStr := bearerToken(c)
		if tokenStr == "" {
			resp.AbortFail(c, response.ErrTokenRequired)
			return
		}

		claims, err := tokens.Validate(tokenStr)
		if err != nil {
			resp.AbortFail(c, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireOwnInstructor restricts instructor tokens to the instructor named by
// the path parameter. Admins and open mode pass through.
func RequireOwnInstructor(param string, resp *response.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || claims.Role != service.RoleInstructor {
			c.Next()
			return
		}
		// Malformed ids fall through to the handler, which rejects them.
		id, err := strconv.Atoi(c.Param(param))
		if err == nil && id != claims.InstructorID {
			resp.AbortFail(c, response.ErrForbidden)
			return
		}
		c.Next()
	}
}

// GetClaims retrieves the staff claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
