package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-food-backend/internal/reservation"
)

type reserveRequest struct {
	FoodID    int64  `json:"food_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	ProfileID string `json:"profile_id"`
}

func (h *Handler) bindReservation(c *gin.Context) (reservation.Request, bool) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "food_id and a positive quantity are required")
		return reservation.Request{}, false
	}
	if req.Quantity <= 0 {
		badRequest(c, reservation.ErrInvalidQuantity.Error())
		return reservation.Request{}, false
	}
	return reservation.Request{
		FoodID:    req.FoodID,
		Quantity:  req.Quantity,
		ProfileID: h.identity.ProfileID(c, req.ProfileID),
	}, true
}

// Reserve handles PUT /reserve/.
func (h *Handler) Reserve(c *gin.Context) {
	req, ok := h.bindReservation(c)
	if !ok {
		return
	}

	res, err := h.reservations.Reserve(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Food item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"food_update":    res.Food,
		"profile_update": res.Profile,
		"unlimited":      res.Unlimited,
		"sold_out":       res.SoldOut,
	})
}

// CancelReservation handles POST /reserve/cancel.
func (h *Handler) CancelReservation(c *gin.Context) {
	req, ok := h.bindReservation(c)
	if !ok {
		return
	}

	res, err := h.reservations.Cancel(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Food item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"food_update":    res.Food,
		"profile_update": res.Profile,
	})
}
