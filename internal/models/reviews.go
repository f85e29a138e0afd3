package models

import (
	"time"

	"github.com/joshua-takyi/tampabay/internal/helpers"
	"github.com/uptrace/bun"
)

type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:r"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Title     string    `bun:"title,notnull" json:"title" validate:"required,max=200,nomarkup"`
	BestWorst string    `bun:"best_worst,notnull" json:"bestWorst" validate:"max=200,nomarkup"`
	Body      string    `bun:"body,notnull" json:"body" validate:"max=4000,nomarkup"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	EventID   int64     `bun:"event_id,notnull" json:"eventId" validate:"required,gt=0"`
	UserID    int64     `bun:"user_id,notnull" json:"userId"`
	User      *User     `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
}

func (r *Review) Trim() {
	r.Title = helpers.StringTrim(r.Title)
	r.BestWorst = helpers.StringTrim(r.BestWorst)
	r.Body = helpers.StringTrim(r.Body)
}
