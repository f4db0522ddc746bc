package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Stats handles GET /stats.
func (h *Handler) Stats(c *gin.Context) {
	totals, err := h.store.Totals(c.Request.Context())
	if err != nil {
		fail(c, err, "")
		return
	}

	pounds := decimal.NewFromInt(totals.ReservedItems).
		Mul(decimal.NewFromFloat(h.poundsPerItem)).
		Round(1)

	c.JSON(http.StatusOK, gin.H{
		"total_events":         totals.Events,
		"total_food_saved":     totals.ReservedItems,
		"active_users":         totals.ActiveProfiles,
		"total_pounds_rescued": pounds.InexactFloat64(),
	})
}
