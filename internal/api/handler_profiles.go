package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campus-food-backend/internal/model"
	"campus-food-backend/internal/store"
)

// ProfileReservations handles GET /profiles/:id/reservations. Unknown
// profiles have no reservations.
func (h *Handler) ProfileReservations(c *gin.Context) {
	ctx := c.Request.Context()

	profile, err := h.store.GetProfile(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"reserved_items": []string{}, "food_rows": []model.Food{}})
		return
	}
	if err != nil {
		fail(c, err, "")
		return
	}

	ids := make([]int64, 0, len(profile.ReservedItems))
	for _, item := range profile.ReservedItems {
		if id, err := strconv.ParseInt(item, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}

	foods, err := h.store.FoodByIDs(ctx, ids)
	if err != nil {
		fail(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reserved_items": profile.ReservedItems,
		"food_rows":      orderByIDs(foods, ids),
	})
}

// orderByIDs returns foods in the order of ids, skipping ids with no row.
func orderByIDs(foods []model.Food, ids []int64) []model.Food {
	byID := make(map[int64]model.Food, len(foods))
	for _, f := range foods {
		byID[f.ID] = f
	}
	out := make([]model.Food, 0, len(ids))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			out = append(out, f)
		}
	}
	return out
}
