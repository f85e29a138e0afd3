package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tampabay/internal/middleware"
	"github.com/joshua-takyi/tampabay/internal/models"
	"github.com/joshua-takyi/tampabay/internal/services"
)

type SignUpRequest struct {
	FullName string `json:"fullName" form:"fullName"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type SessionRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func CreateUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignUpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		user, err := u.CreateUser(c.Request.Context(), req.FullName, req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

// AuthenticateUser signs a user on. The token is returned in the body and also
// set as an HttpOnly cookie for browser clients.
func AuthenticateUser(u *services.UserService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		session, err := u.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		setSessionCookie(c, session, secureCookies)
		c.JSON(http.StatusOK, session)
	}
}

func GetCurrentUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		user, err := u.GetUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func setSessionCookie(c *gin.Context, session *models.SessionResponse, secure bool) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.AccessTokenCookie,
		session.Token,
		maxAge,
		"/",
		"", // let Gin pick current domain
		secure,
		true,
	)
}
