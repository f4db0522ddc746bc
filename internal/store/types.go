package store

import (
	"context"
	"errors"

	"campus-food-backend/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// Totals are the raw counters behind the dashboard statistics.
type Totals struct {
	Events         int64
	ReservedItems  int64
	ActiveProfiles int64
}

// EventStore reads and inserts events.
type EventStore interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	SearchEventsByName(ctx context.Context, query string) ([]model.Event, error)
	SearchEventsByFood(ctx context.Context, food string) ([]model.Event, error)
	GetEvent(ctx context.Context, id int64) (*model.Event, error)
	CreateEvent(ctx context.Context, event *model.Event) error
}

// FoodStore reads, inserts and adjusts food rows.
type FoodStore interface {
	FoodByEvent(ctx context.Context, eventID int64) ([]model.Food, error)
	FoodByIDs(ctx context.Context, ids []int64) ([]model.Food, error)
	SearchFoodByDietaryTags(ctx context.Context, tags []string) ([]model.Food, error)
	CreateFoods(ctx context.Context, foods []model.Food) error
	GetFood(ctx context.Context, id int64) (*model.Food, error)
	UpdateFoodStock(ctx context.Context, id int64, quantity *int, level model.StockLevel) (*model.Food, error)
}

// ProfileStore tracks which food ids a profile currently holds.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	// UpdateReservedItems applies update to the profile's reserved items and
	// persists the result. A missing profile is created only when
	// createMissing is set; otherwise ErrNotFound is returned.
	UpdateReservedItems(ctx context.Context, id string, createMissing bool, update func([]string) []string) (*model.Profile, error)
}

// SubscriptionStore persists web push subscriptions and alert preferences.
type SubscriptionStore interface {
	UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeleteSubscription(ctx context.Context, endpoint string) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	GetNotificationPreference(ctx context.Context, userID string) (*model.NotificationPreference, error)
	SetNotificationPreference(ctx context.Context, userID string, enabled bool) (*model.NotificationPreference, error)
	// SubscriptionsForNewEvents returns every subscription whose owner has
	// new-event alerts switched on.
	SubscriptionsForNewEvents(ctx context.Context) ([]model.PushSubscription, error)
}

// Store defines the interface for all database operations.
type Store interface {
	EventStore
	FoodStore
	ProfileStore
	SubscriptionStore
	Totals(ctx context.Context) (Totals, error)
}
