// Package modelstest provides in-memory repositories for handler and service tests.
package modelstest

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joshua-takyi/tampabay/internal/models"
)

// MemoryStore implements models.EventsRepo, models.ReviewsRepo and models.UserRepo.
type MemoryStore struct {
	mu      sync.Mutex
	events  map[int64]models.Event
	reviews map[int64]models.Review
	users   map[int64]models.User
	nextID  map[string]int64

	// OnUpdate runs before UpdateEvent writes. Returning an error aborts the write
	// with that error, which lets tests simulate a concurrent modification.
	OnUpdate func(event *models.Event) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:  make(map[int64]models.Event),
		reviews: make(map[int64]models.Review),
		users:   make(map[int64]models.User),
		nextID:  make(map[string]int64),
	}
}

func (m *MemoryStore) next(table string) int64 {
	m.nextID[table]++
	return m.nextID[table]
}

// PutEvent stores event as-is, keeping its ID and owner. It is meant for seeding.
func (m *MemoryStore) PutEvent(event models.Event) models.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	if event.ID == 0 {
		event.ID = m.next("events")
	} else if event.ID > m.nextID["events"] {
		m.nextID["events"] = event.ID
	}
	event.Reviews = nil
	m.events[event.ID] = event
	return event
}

// RemoveEvent deletes a row behind the repository's back.
func (m *MemoryStore) RemoveEvent(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteEventLocked(id)
}

func (m *MemoryStore) ListEvents(ctx context.Context, filter string) ([]*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	events := make([]*models.Event, 0, len(m.events))
	for _, e := range m.events {
		if filter != "" && !strings.Contains(e.Name, filter) && !strings.Contains(e.Category, filter) {
			continue
		}
		event := e
		event.Reviews = m.reviewsForLocked(e.ID, false)
		events = append(events, &event)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Name != events[j].Name {
			return events[i].Name < events[j].Name
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

func (m *MemoryStore) GetEventByID(ctx context.Context, id int64) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	e.Reviews = m.reviewsForLocked(id, true)
	return &e, nil
}

func (m *MemoryStore) FindEvent(ctx context.Context, id int64) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &e, nil
}

func (m *MemoryStore) EventExists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.events[id]
	return ok, nil
}

func (m *MemoryStore) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event.ID = m.next("events")
	stored := *event
	stored.Reviews = nil
	m.events[event.ID] = stored
	event.Reviews = []*models.Review{}
	return event, nil
}

func (m *MemoryStore) UpdateEvent(ctx context.Context, event *models.Event) error {
	if m.OnUpdate != nil {
		if err := m.OnUpdate(event); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.events[event.ID]
	if !ok {
		return models.ErrConflict
	}
	stored.Name = event.Name
	stored.Description = event.Description
	stored.Requirements = event.Requirements
	stored.Category = event.Category
	stored.Cost = event.Cost
	stored.Address = event.Address
	m.events[event.ID] = stored
	return nil
}

func (m *MemoryStore) DeleteEvent(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.events[id]; !ok {
		return models.ErrNotFound
	}
	m.deleteEventLocked(id)
	return nil
}

func (m *MemoryStore) deleteEventLocked(id int64) {
	delete(m.events, id)
	for rid, r := range m.reviews {
		if r.EventID == id {
			delete(m.reviews, rid)
		}
	}
}

func (m *MemoryStore) reviewsForLocked(eventID int64, withUser bool) []*models.Review {
	reviews := make([]*models.Review, 0)
	for _, r := range m.reviews {
		if r.EventID != eventID {
			continue
		}
		review := r
		if withUser {
			if u, ok := m.users[r.UserID]; ok {
				review.User = &u
			}
		}
		reviews = append(reviews, &review)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews
}

func (m *MemoryStore) CreateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// reviews.event_id references events.id
	if _, ok := m.events[review.EventID]; !ok {
		return nil, models.ErrNotFound
	}
	review.ID = m.next("reviews")
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	stored := *review
	stored.User = nil
	m.reviews[review.ID] = stored
	return review, nil
}

func (m *MemoryStore) FindReview(ctx context.Context, id int64) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reviews[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &r, nil
}

func (m *MemoryStore) DeleteReview(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reviews[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, models.ErrDuplicate
		}
	}
	user.ID = m.next("users")
	m.users[user.ID] = *user
	return user, nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			user := u
			return &user, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *MemoryStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

// MemoryViews implements models.EventViewsRepo.
type MemoryViews struct {
	mu    sync.Mutex
	views []models.EventView
	seen  map[string]struct{}
}

func NewMemoryViews() *MemoryViews {
	return &MemoryViews{seen: make(map[string]struct{})}
}

func (v *MemoryViews) EnsureIndexes(ctx context.Context) error { return nil }

func (v *MemoryViews) TrackEventView(ctx context.Context, view *models.EventView) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now().UTC()
	view.ViewedAt = now
	view.HourBucket = now.Truncate(time.Hour)
	view.ExpiresAt = now.Add(models.EventViewTTL)

	key := strconv.FormatInt(view.EventID, 10) + "|" + view.SessionID + "|" + view.HourBucket.Format(time.RFC3339)
	if _, dup := v.seen[key]; dup {
		return false, nil
	}
	v.seen[key] = struct{}{}
	v.views = append(v.views, *view)
	return true, nil
}

func (v *MemoryViews) GetEventViewStats(ctx context.Context, eventID int64) (*models.EventViewStats, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	stats := &models.EventViewStats{EventID: eventID}
	sessions := make(map[string]struct{})
	for _, view := range v.views {
		if view.EventID != eventID {
			continue
		}
		stats.TotalViews++
		stats.ViewsToday++
		stats.ViewsThisWeek++
		sessions[view.SessionID] = struct{}{}
	}
	stats.UniqueViews = int64(len(sessions))
	return stats, nil
}

func (v *MemoryViews) GetOwnerViewStats(ctx context.Context, ownerID int64) (*models.OwnerViewStats, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	stats := &models.OwnerViewStats{OwnerID: ownerID}
	sessions := make(map[string]struct{})
	events := make(map[int64]struct{})
	for _, view := range v.views {
		if view.OwnerID != ownerID {
			continue
		}
		stats.TotalViews++
		stats.ViewsToday++
		stats.ViewsThisWeek++
		sessions[view.SessionID] = struct{}{}
		events[view.EventID] = struct{}{}
	}
	stats.UniqueViews = int64(len(sessions))
	stats.TotalEvents = int64(len(events))
	return stats, nil
}
