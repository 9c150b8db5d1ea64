package middleware

import (
	"net/http"
	"strings"

	"retailpos/internal/auth"
	"retailpos/internal/service"
	"retailpos/pkg/response"

	"github.com/gin-gonic/gin"
)

// TokenParser validates access tokens.
type TokenParser interface {
	ParseAccessToken(token string) (*auth.Claims, error)
}

// SetTokenCookie stores the access token as an HttpOnly cookie.
func SetTokenCookie(c *gin.Context, accessToken string, maxAge int, secure bool) {
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie("access_token", accessToken, maxAge, "/", "", secure, true)
}

// ClearTokenCookie removes the access token cookie.
func ClearTokenCookie(c *gin.Context, secure bool) {
	SetTokenCookie(c, "", -1, secure)
}

// bearerToken reads the cookie first, then the Authorization header.
func bearerToken(c *gin.Context) (string, string) {
	if token, err := c.Cookie("access_token"); err == nil && token != "" {
		return token, ""
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "Authorization is missing"
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "Invalid authorization format. Expected 'Bearer <token>'"
	}
	return parts[1], ""
}

// RequireAuth validates the access token and hands it to the data layer via
// the request context. Handlers see userID and userRole in the gin context.
func RequireAuth(tokens TokenParser) gin.HandlerFunc {
	return RequireRole(tokens)
}

// RequireRole is RequireAuth plus a role check. No roles means any role.
func RequireRole(tokens TokenParser, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, problem := bearerToken(c)
		if problem != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, problem))
			return
		}

		claims, err := tokens.ParseAccessToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token: "+err.Error()))
			return
		}

		if len(allowedRoles) > 0 {
			roleAllowed := false
			for _, role := range allowedRoles {
				if claims.Role == role {
					roleAllowed = true
					break
				}
			}
			if !roleAllowed {
				c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
				return
			}
		}

		c.Set("userID", claims.Subject)
		c.Set("userRole", claims.Role)

		ctx := auth.WithAccessToken(c.Request.Context(), tokenString)
		ctx = service.WithClientInfo(ctx, c.ClientIP(), c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
