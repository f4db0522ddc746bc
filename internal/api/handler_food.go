package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"campus-food-backend/internal/model"
	"campus-food-backend/internal/parse"
	"campus-food-backend/internal/reservation"
)

// FoodByEvent handles GET /events/:id/food.
func (h *Handler) FoodByEvent(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid event ID")
		return
	}

	foods, err := h.store.FoodByEvent(c.Request.Context(), eventID)
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": foods})
}

// SearchByDietaryTags handles GET /search/dietary?tags=a,b. Rows must carry
// every requested tag.
func (h *Handler) SearchByDietaryTags(c *gin.Context) {
	tags := parse.Tags(c.QueryArray("tags"))
	if len(tags) == 0 {
		badRequest(c, "at least one tag is required")
		return
	}

	foods, err := h.store.SearchFoodByDietaryTags(c.Request.Context(), tags)
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": foods})
}

type foodRequest struct {
	Name        string           `json:"name"`
	EventID     int64            `json:"event_id"`
	Quantity    *int             `json:"quantity"`
	StockLevel  model.StockLevel `json:"stockLevel"`
	DietaryTags []string         `json:"dietaryTags"`
	Description string           `json:"description"`
}

func (r foodRequest) food() (model.Food, error) {
	name := strings.TrimSpace(r.Name)
	switch {
	case name == "":
		return model.Food{}, fmt.Errorf("name is required")
	case r.EventID <= 0:
		return model.Food{}, fmt.Errorf("event_id is required for %q", name)
	case r.Quantity != nil && *r.Quantity < 0:
		return model.Food{}, fmt.Errorf("quantity for %q must not be negative", name)
	}

	level := r.StockLevel
	switch {
	case level == "" && r.Quantity != nil:
		level = reservation.LevelFor(*r.Quantity)
	case level == "":
		level = model.StockMedium
	case !level.Valid():
		return model.Food{}, fmt.Errorf("unknown stockLevel %q", level)
	}

	return model.Food{
		Name:        name,
		EventID:     r.EventID,
		Quantity:    r.Quantity,
		StockLevel:  level,
		DietaryTags: parse.Clean(r.DietaryTags),
		Description: r.Description,
	}, nil
}

// CreateFood handles POST /food/ with a JSON array of food rows.
func (h *Handler) CreateFood(c *gin.Context) {
	var req []foodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Expected a JSON array of food items")
		return
	}

	foods := make([]model.Food, 0, len(req))
	for _, r := range req {
		f, err := r.food()
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		foods = append(foods, f)
	}

	if err := h.store.CreateFoods(c.Request.Context(), foods); err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": foods})
}
