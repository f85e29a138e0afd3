package helpers

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/crypto/bcrypt"
)

var (
	strictPolicy = bluemonday.StrictPolicy()

	hasLower   = regexp.MustCompile(`[a-z]`)
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasNumber  = regexp.MustCompile(`\d`)
	hasSpecial = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func StringTrim(s string) string {
	return strings.TrimSpace(s)
}

// HasMarkup reports whether s carries HTML elements or comments. Lone angle
// brackets and entities in plain text ("Kids < 12 & up") do not count.
func HasMarkup(s string) bool {
	return html.UnescapeString(strictPolicy.Sanitize(s)) != html.UnescapeString(s)
}

func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	return hasLower.MatchString(password) &&
		hasUpper.MatchString(password) &&
		hasNumber.MatchString(password) &&
		hasSpecial.MatchString(password)
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
