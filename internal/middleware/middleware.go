package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/tampabay/internal/helpers"
	"github.com/joshua-takyi/tampabay/internal/models"
	"github.com/rs/zerolog"
)

const (
	// AccessTokenCookie holds the session token for browser clients.
	AccessTokenCookie = "access_token"

	userKey   = "user"
	userIDKey = "user_id"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger attaches a request-scoped logger to the request context and
// logs one line when the request completes.
func StructuredLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		reqLogger := logger.With().Str("request_id", c.GetString("request_id")).Logger()
		c.Request = c.Request.WithContext(reqLogger.WithContext(c.Request.Context()))

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		status := c.Writer.Status()

		event := reqLogger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = reqLogger.Error()
		case status >= http.StatusBadRequest:
			event = reqLogger.Warn()
		}
		if userID, ok := UserID(c); ok {
			event = event.Int64("user_id", userID)
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP Request")
	}
}

// ErrorHandler renders errors attached with c.Error as a generic 500 and reports
// them to Sentry when a hub is present.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		requestID := c.GetString("request_id")

		zerolog.Ctx(c.Request.Context()).Error().
			Err(err.Err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request error")

		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("request_id", requestID)
				hub.CaptureException(err.Err)
			})
		}

		if c.Writer.Written() {
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":     http.StatusInternalServerError,
			"errors":     []string{"Internal server error"},
			"request_id": requestID,
		})
	}
}

// AuthMiddleware requires a valid session token, read from the Authorization
// header or the access_token cookie.
func AuthMiddleware(tokens *helpers.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewErrorBody(http.StatusUnauthorized, "Not Authorized"))
			return
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewErrorBody(http.StatusUnauthorized, "Not Authorized"))
			return
		}

		setUser(c, claims)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and never rejects.
func OptionalAuth(tokens *helpers.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := tokens.Validate(token); err == nil {
				setUser(c, claims)
			}
		}
		c.Next()
	}
}

func setUser(c *gin.Context, claims *helpers.Claims) {
	userID, _ := claims.UserID()
	c.Set(userKey, claims)
	c.Set(userIDKey, userID)

	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.Scope().SetUser(sentry.User{ID: claims.ID, Email: claims.Email})
	}
}

// UserID returns the acting user's id set by AuthMiddleware or OptionalAuth.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func Claims(c *gin.Context) (*helpers.Claims, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*helpers.Claims)
	return claims, ok
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}
