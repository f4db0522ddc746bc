package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-food-backend/internal/model"
)

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// --- Events ---

func (s *gormStore) ListEvents(ctx context.Context) ([]model.Event, error) {
	events := []model.Event{}
	if err := s.db.WithContext(ctx).Order("id").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// SearchEventsByName matches events whose name contains every word of query,
// ignoring case. Words are plain substrings with no stemming, so "pizzas"
// does not find "Pizza Night".
func (s *gormStore) SearchEventsByName(ctx context.Context, query string) ([]model.Event, error) {
	events := []model.Event{}
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return events, nil
	}

	tx := s.db.WithContext(ctx).Model(&model.Event{})
	for _, w := range words {
		tx = tx.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(w)+"%")
	}
	if err := tx.Order("id").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to search events by name: %w", err)
	}
	return events, nil
}

// SearchEventsByFood matches events whose food list contains food exactly.
func (s *gormStore) SearchEventsByFood(ctx context.Context, food string) ([]model.Event, error) {
	events := []model.Event{}
	pattern, err := jsonElementPattern(food)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).
		Where(`food LIKE ? ESCAPE '\'`, pattern).
		Order("id").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to search events by food: %w", err)
	}
	return events, nil
}

func (s *gormStore) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	var event model.Event
	if err := s.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, notFoundOr(err, "failed to get event %d", id)
	}
	return &event, nil
}

func (s *gormStore) CreateEvent(ctx context.Context, event *model.Event) error {
	if event.Food == nil {
		event.Food = []string{}
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event %q: %w", event.Name, err)
	}
	return nil
}

// --- Food ---

func (s *gormStore) FoodByEvent(ctx context.Context, eventID int64) ([]model.Food, error) {
	foods := []model.Food{}
	if err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Order("id").Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("failed to list food for event %d: %w", eventID, err)
	}
	return foods, nil
}

func (s *gormStore) FoodByIDs(ctx context.Context, ids []int64) ([]model.Food, error) {
	foods := []model.Food{}
	if len(ids) == 0 {
		return foods, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch food rows: %w", err)
	}
	return foods, nil
}

// SearchFoodByDietaryTags returns food rows carrying every tag in tags.
func (s *gormStore) SearchFoodByDietaryTags(ctx context.Context, tags []string) ([]model.Food, error) {
	foods := []model.Food{}
	if len(tags) == 0 {
		return foods, nil
	}

	tx := s.db.WithContext(ctx).Model(&model.Food{})
	for _, tag := range tags {
		pattern, err := jsonElementPattern(tag)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(`dietary_tags LIKE ? ESCAPE '\'`, pattern)
	}
	if err := tx.Order("id").Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("failed to search food by dietary tags: %w", err)
	}
	return foods, nil
}

func (s *gormStore) CreateFoods(ctx context.Context, foods []model.Food) error {
	if len(foods) == 0 {
		return nil
	}
	for i := range foods {
		if foods[i].DietaryTags == nil {
			foods[i].DietaryTags = []string{}
		}
	}
	if err := s.db.WithContext(ctx).Create(&foods).Error; err != nil {
		return fmt.Errorf("failed to create %d food rows: %w", len(foods), err)
	}
	return nil
}

func (s *gormStore) GetFood(ctx context.Context, id int64) (*model.Food, error) {
	var food model.Food
	if err := s.db.WithContext(ctx).First(&food, id).Error; err != nil {
		return nil, notFoundOr(err, "failed to get food %d", id)
	}
	return &food, nil
}

// UpdateFoodStock overwrites quantity and stock level and returns the stored row.
// The write is unconditional: it does not check the row still holds the
// quantity the caller read.
func (s *gormStore) UpdateFoodStock(ctx context.Context, id int64, quantity *int, level model.StockLevel) (*model.Food, error) {
	var qty any
	if quantity != nil {
		qty = *quantity
	}

	res := s.db.WithContext(ctx).
		Model(&model.Food{}).
		Where("id = ?", id).
		Updates(map[string]any{"quantity": qty, "stock_level": level})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update stock for food %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetFood(ctx, id)
}

// --- Profiles ---

func (s *gormStore) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "failed to get profile %s", id)
	}
	if profile.ReservedItems == nil {
		profile.ReservedItems = []string{}
	}
	return &profile, nil
}

func (s *gormStore) UpdateReservedItems(ctx context.Context, id string, createMissing bool, update func([]string) []string) (*model.Profile, error) {
	var profile model.Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&profile, "id = ?", id).Error
		missing := errors.Is(err, gorm.ErrRecordNotFound)
		switch {
		case missing && !createMissing:
			return ErrNotFound
		case err != nil && !missing:
			return err
		}

		current := append([]string{}, profile.ReservedItems...)
		profile.ID = id
		profile.ReservedItems = update(current)
		if profile.ReservedItems == nil {
			profile.ReservedItems = []string{}
		}

		if missing {
			return tx.Create(&profile).Error
		}
		profile.UpdatedAt = time.Now()
		return tx.Model(&profile).Select("reserved_items", "updated_at").Updates(&profile).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update reserved items for profile %s: %w", id, err)
	}
	return &profile, nil
}

// --- Subscriptions ---

func (s *gormStore) UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error {
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "user_id"}),
	}).Create(sub).Error; err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error; err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		return nil, notFoundOr(err, "failed to get subscription")
	}
	return &sub, nil
}

func (s *gormStore) GetNotificationPreference(ctx context.Context, userID string) (*model.NotificationPreference, error) {
	var pref model.NotificationPreference
	if err := s.db.WithContext(ctx).First(&pref, "user_id = ?", userID).Error; err != nil {
		return nil, notFoundOr(err, "failed to get notification preference for %s", userID)
	}
	return &pref, nil
}

func (s *gormStore) SetNotificationPreference(ctx context.Context, userID string, enabled bool) (*model.NotificationPreference, error) {
	pref := model.NotificationPreference{
		UserID:               userID,
		NotificationsEnabled: enabled,
		UpdatedAt:            time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"notifications_enabled", "updated_at"}),
	}).Create(&pref).Error; err != nil {
		return nil, fmt.Errorf("failed to save notification preference for %s: %w", userID, err)
	}
	return &pref, nil
}

func (s *gormStore) SubscriptionsForNewEvents(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Select("push_subscriptions.*").
		Joins("JOIN notification_preferences np ON np.user_id = push_subscriptions.user_id").
		Where("np.notifications_enabled = ?", true).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions: %w", err)
	}
	return subs, nil
}

// --- Statistics ---

func (s *gormStore) Totals(ctx context.Context) (Totals, error) {
	var totals Totals
	if err := s.db.WithContext(ctx).Model(&model.Event{}).Count(&totals.Events).Error; err != nil {
		return Totals{}, fmt.Errorf("failed to count events: %w", err)
	}

	var profiles []model.Profile
	if err := s.db.WithContext(ctx).Select("id", "reserved_items").Find(&profiles).Error; err != nil {
		return Totals{}, fmt.Errorf("failed to load profiles: %w", err)
	}
	for _, p := range profiles {
		if n := len(p.ReservedItems); n > 0 {
			totals.ReservedItems += int64(n)
			totals.ActiveProfiles++
		}
	}
	return totals, nil
}

// --- Helpers ---

func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// jsonElementPattern builds a LIKE pattern matching value as a whole element
// of a JSON-encoded string array column.
func jsonElementPattern(value string) (string, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode %q: %w", value, err)
	}
	return "%" + escapeLike(string(encoded)) + "%", nil
}
