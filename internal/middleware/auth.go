package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"idportal/internal/auth"
	"idportal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	// TokenCookie carries the admin session token.
	TokenCookie = "access_token"

	sessionKey = "session"
)

// SessionResolver turns a session token into a resolved session.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*auth.Session, error)
}

// SetTokenCookies sets access_token as an HttpOnly cookie
func SetTokenCookies(c *gin.Context, accessToken string, maxAge int, secure bool) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}

	c.SetSameSite(sameSite)
	c.SetCookie(TokenCookie, accessToken, maxAge, "/", "", secure, true)
}

// ClearTokenCookies removes the access_token cookie
func ClearTokenCookies(c *gin.Context, secure bool) {
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}

	c.SetSameSite(sameSite)
	c.SetCookie(TokenCookie, "", -1, "/", "", secure, true)
}

// TokenFromRequest reads the session token from the cookie, falling back to
// an Authorization: Bearer header.
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(TokenCookie); err == nil && token != "" {
		return token
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAdmin resolves the admin session before any protected handler runs.
// Browser navigations without a session are redirected to loginURL, the admin
// UI's login page, with the original path in ?next=. API calls, and every
// request when loginURL is empty, get 401. A session that cannot be resolved
// is never treated as authenticated.
func RequireAdmin(resolver SessionResolver, loginURL string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := resolver.ResolveSession(c.Request.Context(), TokenFromRequest(c))
		if err != nil {
			logger.ErrorContext(c.Request.Context(), "failed to resolve admin session", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.Error(http.StatusServiceUnavailable, "Unable to verify session. Please try again."))
			return
		}

		if !session.Authenticated() {
			if loginURL != "" && wantsHTML(c.Request) {
				target := loginRedirect(loginURL, c.Request.URL.RequestURI())
				c.Redirect(http.StatusSeeOther, target)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
			return
		}

		c.Set(sessionKey, session)
		c.Set("userID", session.User.ID)
		c.Set("userRole", session.User.Role)
		c.Next()
	}
}

// RequireRole Middleware checks that the resolved session's role is in allowedRoles.
// It must run after RequireAdmin.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFromContext(c)
		if !session.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
			return
		}

		for _, role := range allowedRoles {
			if session.User.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
	}
}

// SessionFromContext returns the session stored by RequireAdmin, or nil.
func SessionFromContext(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*auth.Session)
	return session
}

func wantsHTML(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// loginRedirect appends next to loginURL, keeping any query it already has.
func loginRedirect(loginURL, next string) string {
	sep := "?"
	if strings.Contains(loginURL, "?") {
		sep = "&"
	}
	return loginURL + sep + "next=" + url.QueryEscape(next)
}
