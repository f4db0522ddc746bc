package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"campus-food-backend/internal/auth"
	"campus-food-backend/internal/media"
	"campus-food-backend/internal/reservation"
	"campus-food-backend/internal/store"
)

// Notifier queues a newly created event for push delivery.
type Notifier interface {
	Dispatch(eventID int64) bool
}

// Deps are the collaborators the handlers need. Media, Notifier and
// Webpush may be left nil.
type Deps struct {
	Store         store.Store
	Identity      *auth.Resolver
	Media         media.Uploader
	Notifier      Notifier
	Webpush       *webpush.Options
	PoundsPerItem float64
	MaxUploadMB   int64
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store         store.Store
	reservations  *reservation.Service
	identity      *auth.Resolver
	media         media.Uploader
	notifier      Notifier
	webpush       *webpush.Options
	poundsPerItem float64
	maxUpload     int64
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	h := &Handler{
		store:         d.Store,
		identity:      d.Identity,
		media:         d.Media,
		notifier:      d.Notifier,
		webpush:       d.Webpush,
		poundsPerItem: d.PoundsPerItem,
		maxUpload:     d.MaxUploadMB << 20,
	}
	if d.Store != nil {
		h.reservations = reservation.NewService(d.Store, d.Store)
	}
	if h.media == nil {
		h.media = media.Disabled{}
	}
	if h.maxUpload <= 0 {
		h.maxUpload = 10 << 20
	}
	return h
}

// fail maps err onto a status code. Backend failures are logged and answered
// with a generic message.
func fail(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": notFound})
	case errors.Is(err, reservation.ErrInsufficientStock):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "Not enough stock available"})
	case errors.Is(err, reservation.ErrInvalidQuantity):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	default:
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}

func badRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": detail})
}
