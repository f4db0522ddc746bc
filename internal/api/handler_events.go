package api

import (
	"context"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campus-food-backend/internal/model"
	"campus-food-backend/internal/parse"
)

// ListEvents handles GET /.
func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.store.ListEvents(c.Request.Context())
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

// SearchByName handles GET /search/name/:name.
func (h *Handler) SearchByName(c *gin.Context) {
	events, err := h.store.SearchEventsByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

// SearchByFood handles GET /search/food/:food.
func (h *Handler) SearchByFood(c *gin.Context) {
	events, err := h.store.SearchEventsByFood(c.Request.Context(), strings.TrimSpace(c.Param("food")))
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

type eventForm struct {
	Name           string `form:"name" json:"name"`
	Description    string `form:"description" json:"description"`
	Organization   string `form:"organization" json:"organization"`
	Location       string `form:"location" json:"location"`
	CampusLocation string `form:"campus_location" json:"campus_location"`
	Date           string `form:"date" json:"date"`
	StartTime      string `form:"start_time" json:"start_time"`
	EndTime        string `form:"end_time" json:"end_time"`
	Food           string `form:"food" json:"-"`
}

type eventJSON struct {
	eventForm
	Food     []string `json:"food"`
	ImageURL *string  `json:"image_url"`
}

func (f eventForm) event(food []string) *model.Event {
	return &model.Event{
		Name:           strings.TrimSpace(f.Name),
		Description:    f.Description,
		Organization:   f.Organization,
		Location:       f.Location,
		CampusLocation: f.CampusLocation,
		Date:           f.Date,
		StartTime:      f.StartTime,
		EndTime:        f.EndTime,
		Food:           food,
	}
}

// CreateEvent handles POST /event/. It accepts a multipart form with an
// optional image, or a JSON body.
func (h *Handler) CreateEvent(c *gin.Context) {
	var event *model.Event

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req eventJSON
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid event payload")
			return
		}
		event = req.event(parse.Clean(req.Food))
		event.ImageURL = req.ImageURL
	} else {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
		var form eventForm
		if err := c.ShouldBind(&form); err != nil {
			badRequest(c, "Invalid event form")
			return
		}
		event = form.event(parse.FoodList(form.Food))
		if file, err := c.FormFile("image"); err == nil {
			event.ImageURL = h.uploadImage(c.Request.Context(), file)
		}
	}

	if event.Name == "" {
		badRequest(c, "name is required")
		return
	}

	if err := h.store.CreateEvent(c.Request.Context(), event); err != nil {
		fail(c, err, "")
		return
	}

	if h.notifier != nil {
		h.notifier.Dispatch(event.ID)
	}

	c.JSON(http.StatusOK, gin.H{"data": []*model.Event{event}})
}

// uploadImage stores the event image. Failures leave the event without one.
func (h *Handler) uploadImage(ctx context.Context, fh *multipart.FileHeader) *string {
	f, err := fh.Open()
	if err != nil {
		log.Printf("Warning: could not open uploaded image %s: %v", fh.Filename, err)
		return nil
	}
	defer f.Close()

	url, err := h.media.Upload(ctx, f, fh.Filename)
	if err != nil {
		log.Printf("Warning: image upload failed, creating event without image: %v", err)
		return nil
	}
	return &url
}
