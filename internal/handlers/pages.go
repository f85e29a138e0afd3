package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tampabay/internal/middleware"
	"github.com/joshua-takyi/tampabay/internal/models"
	"github.com/joshua-takyi/tampabay/internal/services"
	"github.com/joshua-takyi/tampabay/web"
)

// LoadTemplates parses the embedded page templates.
func LoadTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"cost": func(cost float64) string {
			return "$" + strconv.FormatFloat(cost, 'f', 2, 64)
		},
	}
	return template.New("").Funcs(funcs).ParseFS(web.Templates, "templates/*.html")
}

func page(c *gin.Context, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	_, signedIn := middleware.UserID(c)
	data["Title"] = title
	data["SignedIn"] = signedIn
	return data
}

func renderPageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.HTML(http.StatusNotFound, "error.html", page(c, "Not Found", gin.H{"Error": "That event does not exist."}))
	default:
		_ = c.Error(err)
		c.HTML(http.StatusInternalServerError, "error.html", page(c, "Something went wrong", gin.H{"Error": "Please try again later."}))
	}
}

func IndexPage(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := c.Query("filter")
		events, err := es.ListEvents(c.Request.Context(), filter)
		if err != nil {
			renderPageError(c, err)
			return
		}
		c.HTML(http.StatusOK, "index.html", page(c, "", gin.H{
			"Events": events,
			"Filter": filter,
		}))
	}
}

func EventPage(es *services.EventService, vs *services.ViewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.HTML(http.StatusBadRequest, "error.html", page(c, "Bad Request", gin.H{"Error": "The id must be an integer."}))
			return
		}

		event, err := es.GetEvent(c.Request.Context(), id)
		if err != nil {
			renderPageError(c, err)
			return
		}

		c.HTML(http.StatusOK, "event.html", page(c, event.Name, gin.H{"Event": event}))
		trackAfterResponse(c, vs, event)
	}
}

func SignUpPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "signup.html", page(c, "Sign Up", gin.H{"Form": SignUpRequest{}}))
	}
}

// SignUpForm creates the account and redirects home. Errors re-render the form
// with every message joined into one paragraph.
func SignUpForm(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form SignUpRequest
		if err := c.ShouldBind(&form); err != nil {
			renderFormError(c, "signup.html", "Sign Up", form, services.NewValidationError(err))
			return
		}

		if _, err := u.CreateUser(c.Request.Context(), form.FullName, form.Email, form.Password); err != nil {
			renderFormError(c, "signup.html", "Sign Up", form, err)
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func SignInPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "signin.html", page(c, "Sign In", gin.H{"Form": SessionRequest{}}))
	}
}

func SignInForm(u *services.UserService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form SessionRequest
		if err := c.ShouldBind(&form); err != nil {
			renderFormError(c, "signin.html", "Sign In", form, services.NewValidationError(err))
			return
		}

		session, err := u.AuthenticateUser(c.Request.Context(), form.Email, form.Password)
		if err != nil {
			renderFormError(c, "signin.html", "Sign In", form, err)
			return
		}

		setSessionCookie(c, session, secureCookies)
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func SignOut(secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", secureCookies, true)
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func renderFormError(c *gin.Context, name, title string, form interface{}, err error) {
	msgs, ok := formMessages(err)
	if !ok {
		renderPageError(c, err)
		return
	}
	c.HTML(http.StatusBadRequest, name, page(c, title, gin.H{
		"Form":  form,
		"Error": strings.Join(msgs, " "),
	}))
}

// formMessages returns the user-facing messages for err, or false when err is
// not something the user can fix.
func formMessages(err error) ([]string, bool) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Messages, true
	case errors.Is(err, services.ErrInvalidCredentials):
		return []string{"The email or password is incorrect."}, true
	case errors.Is(err, services.ErrEmailTaken):
		return []string{"That email address is already taken."}, true
	}
	return nil, false
}
