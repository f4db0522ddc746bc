package reservation

import (
	"errors"
	"math"

	"campus-food-backend/internal/model"
)

// Baselines assumed for rows that carry a stock level but no quantity.
const (
	MediumBaseline = 30
	LowBaseline    = 7
)

var (
	// ErrInsufficientStock is returned when a reservation asks for more than
	// the item has left.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidQuantity is returned for non-positive reservation amounts.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// Change is the stock state a reserve or cancel operation would store.
type Change struct {
	// Unlimited is set when the row is exempt from tracking; nothing is stored.
	Unlimited bool
	// Noop is set when there is nothing to write back.
	Noop       bool
	Quantity   *int
	StockLevel model.StockLevel
}

// SoldOut reports whether the change leaves no portions behind.
func (c Change) SoldOut() bool {
	return c.Quantity != nil && *c.Quantity == 0
}

// LevelFor bands a quantity into a stock level. Zero stays "low".
func LevelFor(quantity int) model.StockLevel {
	switch {
	case quantity > MediumBaseline:
		return model.StockHigh
	case quantity > LowBaseline:
		return model.StockMedium
	default:
		return model.StockLow
	}
}

// Baseline returns the quantity reservations are measured against. The
// second result is true for unlimited items (no quantity, high stock).
func Baseline(food model.Food) (int, bool) {
	if food.Quantity != nil {
		return *food.Quantity, false
	}
	switch food.StockLevel {
	case model.StockHigh:
		return 0, true
	case model.StockMedium:
		return MediumBaseline, false
	default:
		return LowBaseline, false
	}
}

// PlanReserve computes the state left after taking requested portions.
func PlanReserve(food model.Food, requested int) (Change, error) {
	if requested <= 0 {
		return Change{}, ErrInvalidQuantity
	}

	baseline, unlimited := Baseline(food)
	if unlimited {
		return Change{Unlimited: true, Noop: true, StockLevel: food.StockLevel}, nil
	}

	remaining := baseline - requested
	if remaining < 0 {
		return Change{}, ErrInsufficientStock
	}
	return Change{Quantity: &remaining, StockLevel: LevelFor(remaining)}, nil
}

// PlanCancel computes the state left after returning portions. Items without
// a stored quantity are left untouched.
func PlanCancel(food model.Food, returned int) (Change, error) {
	if returned <= 0 {
		return Change{}, ErrInvalidQuantity
	}
	if food.Quantity == nil {
		return Change{
			Unlimited:  food.StockLevel == model.StockHigh,
			Noop:       true,
			StockLevel: food.StockLevel,
		}, nil
	}

	if returned > math.MaxInt-*food.Quantity {
		return Change{}, ErrInvalidQuantity
	}
	restored := *food.Quantity + returned
	return Change{Quantity: &restored, StockLevel: LevelFor(restored)}, nil
}
