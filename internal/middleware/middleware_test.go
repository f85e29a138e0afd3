package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tampabay/internal/helpers"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTokens = helpers.NewTokens([]byte("middleware-secret-0123"), time.Hour, "tampabay")

func newTestRouter(logger zerolog.Logger, mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), StructuredLogger(logger), ErrorHandler())
	r.Use(mw...)
	r.GET("/whoami", func(c *gin.Context) {
		id, ok := UserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok})
	})
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("database exploded"))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	token, _, err := testTokens.Generate(7, "ann@example.com", "Ann")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		cookie string
		status int
	}{
		{"bearer header", "Bearer " + token, "", http.StatusOK},
		{"lowercase scheme", "bearer " + token, "", http.StatusOK},
		{"cookie fallback", "", token, http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", "", http.StatusUnauthorized},
	}

	r := newTestRouter(zerolog.Nop(), AuthMiddleware(testTokens))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.status == http.StatusOK {
				assert.Equal(t, float64(7), body["id"])
			} else {
				assert.Equal(t, float64(http.StatusUnauthorized), body["status"])
				assert.Equal(t, []interface{}{"Not Authorized"}, body["errors"])
			}
		})
	}
}

func TestOptionalAuthNeverRejects(t *testing.T) {
	r := newTestRouter(zerolog.Nop(), OptionalAuth(testTokens))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":0,"ok":false}`, rec.Body.String())
}

func TestErrorHandlerRendersGenericError(t *testing.T) {
	var logs bytes.Buffer
	r := newTestRouter(zerolog.New(&logs))

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `{"status":500,"errors":["Internal server error"],"request_id":"req-123"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "database exploded")
	assert.Contains(t, logs.String(), "database exploded")
	assert.Contains(t, logs.String(), `"request_id":"req-123"`)
}

func TestRequestIDGenerated(t *testing.T) {
	r := newTestRouter(zerolog.Nop())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
}
