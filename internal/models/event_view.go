package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	EventViewsColName = "event_views"
	EventViewTTL      = 30 * 24 * time.Hour
)

type EventView struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID    int64              `bson:"event_id" json:"eventId" validate:"required"`
	OwnerID    int64              `bson:"owner_id" json:"ownerId"`
	UserID     *int64             `bson:"user_id,omitempty" json:"userId,omitempty"`
	SessionID  string             `bson:"session_id" json:"sessionId" validate:"required"`
	IPAddress  string             `bson:"ip_address,omitempty" json:"ipAddress,omitempty"`
	UserAgent  string             `bson:"user_agent,omitempty" json:"userAgent,omitempty"`
	HourBucket time.Time          `bson:"hour_bucket" json:"-"`
	ViewedAt   time.Time          `bson:"viewed_at" json:"viewedAt"`
	ExpiresAt  time.Time          `bson:"expires_at" json:"-"` // TTL index field
}

type EventViewStats struct {
	EventID       int64 `json:"eventId"`
	TotalViews    int64 `json:"totalViews"`
	UniqueViews   int64 `json:"uniqueViews"`
	ViewsToday    int64 `json:"viewsToday"`
	ViewsThisWeek int64 `json:"viewsThisWeek"`
}

// OwnerViewStats aggregates views across every event a user owns.
type OwnerViewStats struct {
	OwnerID       int64 `json:"ownerId"`
	TotalViews    int64 `json:"totalViews"`
	UniqueViews   int64 `json:"uniqueViews"`
	ViewsToday    int64 `json:"viewsToday"`
	ViewsThisWeek int64 `json:"viewsThisWeek"`
	TotalEvents   int64 `json:"totalEvents"`
}

type EventViewsRepo interface {
	// TrackEventView reports false when the session already viewed the event this hour.
	TrackEventView(ctx context.Context, view *EventView) (bool, error)
	GetEventViewStats(ctx context.Context, eventID int64) (*EventViewStats, error)
	GetOwnerViewStats(ctx context.Context, ownerID int64) (*OwnerViewStats, error)
	EnsureIndexes(ctx context.Context) error
}

// EnsureIndexes creates the TTL, dedupe and lookup indexes.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, EventViewsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetExpireAfterSeconds(0).
				SetName("expires_at_ttl"),
		},
		// one view per session per event per hour
		{
			Keys: bson.D{
				{Key: "event_id", Value: 1},
				{Key: "session_id", Value: 1},
				{Key: "hour_bucket", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("event_session_hour_unique"),
		},
		{
			Keys: bson.D{
				{Key: "event_id", Value: 1},
				{Key: "viewed_at", Value: -1},
			},
			Options: options.Index().SetName("event_viewed_at_idx"),
		},
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "viewed_at", Value: -1},
			},
			Options: options.Index().SetName("owner_viewed_at_idx"),
		},
	}

	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating indexes: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) TrackEventView(ctx context.Context, view *EventView) (bool, error) {
	col, err := mdb.GetCollection(ctx, EventViewsColName)
	if err != nil {
		return false, fmt.Errorf("error getting collection: %w", err)
	}

	now := time.Now().UTC()
	view.ViewedAt = now
	view.HourBucket = now.Truncate(time.Hour)
	view.ExpiresAt = now.Add(EventViewTTL)
	if view.ID.IsZero() {
		view.ID = primitive.NewObjectID()
	}

	if _, err := col.InsertOne(ctx, view); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("error inserting event view: %w", err)
	}
	return true, nil
}

func (mdb *MongodbRepo) GetEventViewStats(ctx context.Context, eventID int64) (*EventViewStats, error) {
	col, err := mdb.GetCollection(ctx, EventViewsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	match := bson.M{"event_id": eventID}
	stats := &EventViewStats{EventID: eventID}
	if stats.TotalViews, stats.ViewsToday, stats.ViewsThisWeek, err = countWindows(ctx, col, match); err != nil {
		return nil, err
	}
	if stats.UniqueViews, err = countDistinct(ctx, col, match, "$session_id"); err != nil {
		return nil, err
	}
	return stats, nil
}

func (mdb *MongodbRepo) GetOwnerViewStats(ctx context.Context, ownerID int64) (*OwnerViewStats, error) {
	col, err := mdb.GetCollection(ctx, EventViewsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	match := bson.M{"owner_id": ownerID}
	stats := &OwnerViewStats{OwnerID: ownerID}
	if stats.TotalViews, stats.ViewsToday, stats.ViewsThisWeek, err = countWindows(ctx, col, match); err != nil {
		return nil, err
	}
	if stats.UniqueViews, err = countDistinct(ctx, col, match, "$session_id"); err != nil {
		return nil, err
	}
	if stats.TotalEvents, err = countDistinct(ctx, col, match, "$event_id"); err != nil {
		return nil, err
	}
	return stats, nil
}

// countWindows returns the all-time, today and this-week counts for match.
func countWindows(ctx context.Context, col *mongo.Collection, match bson.M) (total, today, week int64, err error) {
	startOfDay, startOfWeek := viewWindows(time.Now().UTC())

	if total, err = col.CountDocuments(ctx, match); err != nil {
		return 0, 0, 0, fmt.Errorf("error counting total views: %w", err)
	}
	if today, err = col.CountDocuments(ctx, withSince(match, startOfDay)); err != nil {
		return 0, 0, 0, fmt.Errorf("error counting today's views: %w", err)
	}
	if week, err = col.CountDocuments(ctx, withSince(match, startOfWeek)); err != nil {
		return 0, 0, 0, fmt.Errorf("error counting this week's views: %w", err)
	}
	return total, today, week, nil
}

func countDistinct(ctx context.Context, col *mongo.Collection, match bson.M, field string) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": field}}},
		{{Key: "$count", Value: "n"}},
	}
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("error aggregating distinct %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	var result []bson.M
	if err := cursor.All(ctx, &result); err != nil {
		return 0, fmt.Errorf("error decoding distinct %s: %w", field, err)
	}
	if len(result) == 0 {
		return 0, nil
	}
	switch n := result[0]["n"].(type) {
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	}
	return 0, nil
}

func withSince(match bson.M, since time.Time) bson.M {
	m := bson.M{"viewed_at": bson.M{"$gte": since}}
	for k, v := range match {
		m[k] = v
	}
	return m
}

// viewWindows returns the start of the current day and of the current week (Sunday).
func viewWindows(now time.Time) (time.Time, time.Time) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := startOfDay.AddDate(0, 0, -int(now.Weekday()))
	return startOfDay, startOfWeek
}
