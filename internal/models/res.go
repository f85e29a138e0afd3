package models

import "time"

// ErrorBody is the error envelope every endpoint renders.
type ErrorBody struct {
	Status int      `json:"status"`
	Errors []string `json:"errors"`
}

func NewErrorBody(status int, errs ...string) ErrorBody {
	if errs == nil {
		errs = []string{}
	}
	return ErrorBody{
		Status: status,
		Errors: errs,
	}
}

// SessionResponse is returned by sign-on.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}
