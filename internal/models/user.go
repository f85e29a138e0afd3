package models

import (
	"strings"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID             int64  `bun:"id,pk,autoincrement" json:"id"`
	FullName       string `bun:"full_name,notnull" json:"fullName" validate:"required,max=200,nomarkup"`
	Email          string `bun:"email,notnull" json:"email" validate:"required,email,max=320"`
	HashedPassword string `bun:"hashed_password,notnull" json:"-"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
