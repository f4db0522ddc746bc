package reservation

import (
	"context"
	"errors"
	"log"
	"strconv"

	"campus-food-backend/internal/metrics"
	"campus-food-backend/internal/model"
	"campus-food-backend/internal/store"
)

// Request asks to reserve or return Quantity portions of a food item on
// behalf of ProfileID. An empty ProfileID skips profile tracking.
type Request struct {
	FoodID    int64
	Quantity  int
	ProfileID string
}

// Result describes what a reserve or cancel call stored.
type Result struct {
	// Food is the row after the update, or nil when nothing was written.
	Food *model.Food
	// Profile is the profile after tracking, or nil when it was skipped or failed.
	Profile   *model.Profile
	Unlimited bool
	SoldOut   bool
}

// Service applies reservations to food rows and profiles. Food rows are read
// and then written without locking, so concurrent reservations on the same
// row can oversell.
type Service struct {
	foods    store.FoodStore
	profiles store.ProfileStore
}

// NewService creates a reservation service.
func NewService(foods store.FoodStore, profiles store.ProfileStore) *Service {
	return &Service{foods: foods, profiles: profiles}
}

// Reserve takes portions from a food item and records the item on the profile.
func (s *Service) Reserve(ctx context.Context, req Request) (*Result, error) {
	res, err := s.reserve(ctx, req)
	metrics.ObserveReservation("reserve", outcome(err))
	return res, err
}

func (s *Service) reserve(ctx context.Context, req Request) (*Result, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	food, err := s.foods.GetFood(ctx, req.FoodID)
	if err != nil {
		return nil, err
	}

	change, err := PlanReserve(*food, req.Quantity)
	if err != nil {
		return nil, err
	}

	res := &Result{Unlimited: change.Unlimited, SoldOut: change.SoldOut()}
	if !change.Noop {
		updated, err := s.foods.UpdateFoodStock(ctx, food.ID, change.Quantity, change.StockLevel)
		if err != nil {
			return nil, err
		}
		res.Food = updated
	}

	key := foodKey(food.ID)
	res.Profile = s.track(ctx, req.ProfileID, true, func(items []string) []string {
		return AddReserved(items, key)
	})
	return res, nil
}

// Cancel returns portions to a food item and drops the item from the profile.
// An unknown food id is not an error; the profile is still updated.
func (s *Service) Cancel(ctx context.Context, req Request) (*Result, error) {
	res, err := s.cancel(ctx, req)
	metrics.ObserveReservation("cancel", outcome(err))
	return res, err
}

func (s *Service) cancel(ctx context.Context, req Request) (*Result, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	res := &Result{}
	food, err := s.foods.GetFood(ctx, req.FoodID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Printf("Cancel for unknown food %d; only the profile will be updated", req.FoodID)
	case err != nil:
		return nil, err
	default:
		change, err := PlanCancel(*food, req.Quantity)
		if err != nil {
			return nil, err
		}
		res.Unlimited = change.Unlimited
		if !change.Noop {
			updated, err := s.foods.UpdateFoodStock(ctx, food.ID, change.Quantity, change.StockLevel)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return nil, err
			}
			res.Food = updated
		}
	}

	key := foodKey(req.FoodID)
	res.Profile = s.track(ctx, req.ProfileID, false, func(items []string) []string {
		return RemoveReserved(items, key)
	})
	return res, nil
}

// track applies update to the profile's reserved items. Failures are logged
// and never undo the food change that preceded them.
func (s *Service) track(ctx context.Context, profileID string, createMissing bool, update func([]string) []string) *model.Profile {
	if profileID == "" {
		return nil
	}
	profile, err := s.profiles.UpdateReservedItems(ctx, profileID, createMissing, update)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Warning: reserved items for profile %s not updated: %v", profileID, err)
		}
		return nil
	}
	return profile
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrInvalidQuantity):
		return "invalid"
	default:
		return "error"
	}
}

func foodKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
