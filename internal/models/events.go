package models

import (
	"github.com/joshua-takyi/tampabay/internal/helpers"
	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	Name         string    `bun:"name,notnull" json:"name" validate:"required,max=200,nomarkup"`
	Description  string    `bun:"description,notnull" json:"description" validate:"max=2000,nomarkup"`
	Requirements string    `bun:"requirements,notnull" json:"requirements" validate:"max=2000,nomarkup"`
	Category     string    `bun:"category,notnull" json:"category" validate:"max=2000,nomarkup"`
	// events.cost is numeric(12,2); the upper bound keeps writes from overflowing it.
	Cost         float64   `bun:"cost,notnull" json:"cost" validate:"gte=0,lte=9999999999.99"`
	Address      string    `bun:"address,notnull" json:"address" validate:"max=2000,nomarkup"`
	UserID       int64     `bun:"user_id,notnull" json:"userId"`
	Reviews      []*Review `bun:"rel:has-many,join:id=event_id" json:"reviews"`
}

// EditableColumns are the columns a PUT replaces. user_id is never among them.
var EditableColumns = []string{"name", "description", "requirements", "category", "cost", "address"}

// Trim strips surrounding whitespace from the text fields. Nothing else about
// the text is altered; markup is rejected by validation instead.
func (e *Event) Trim() {
	e.Name = helpers.StringTrim(e.Name)
	e.Description = helpers.StringTrim(e.Description)
	e.Requirements = helpers.StringTrim(e.Requirements)
	e.Category = helpers.StringTrim(e.Category)
	e.Address = helpers.StringTrim(e.Address)
}

// ensureReviews keeps the wire shape stable: an event without reviews
// serializes as "reviews": [] rather than null.
func (e *Event) ensureReviews() {
	if e.Reviews == nil {
		e.Reviews = []*Review{}
	}
}
