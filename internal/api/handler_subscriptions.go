package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-food-backend/internal/model"
	"campus-food-backend/internal/store"
)

type subscriptionKeys struct {
	P256DH string `json:"p256dh"`
	Auth   string `json:"auth"`
}

type putSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	P256DH   string `json:"p256dh"`
	Auth     string `json:"auth"`
	// Keys is the layout produced by PushSubscription.toJSON() in browsers.
	Keys   *subscriptionKeys `json:"keys"`
	UserID string            `json:"user_id"`
}

// PutSubscription handles the creation or replacement of a subscription.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	if req.Keys != nil {
		if req.P256DH == "" {
			req.P256DH = req.Keys.P256DH
		}
		if req.Auth == "" {
			req.Auth = req.Keys.Auth
		}
	}
	if req.P256DH == "" || req.Auth == "" {
		badRequest(c, "p256dh and auth keys are required")
		return
	}

	userID := h.identity.ProfileID(c, req.UserID)
	if userID == "" {
		badRequest(c, "user_id is required")
		return
	}

	subscription := model.PushSubscription{
		Endpoint: req.Endpoint,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
		UserID:   userID,
	}
	if err := h.store.UpsertSubscription(c.Request.Context(), &subscription); err != nil {
		fail(c, err, "")
		return
	}

	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription handles the deletion of a subscription.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	if err := h.store.DeleteSubscription(c.Request.Context(), req.Endpoint); err != nil {
		fail(c, err, "")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSubscription handles the retrieval of a subscription.
func (h *Handler) GetSubscription(c *gin.Context) {
	endpoint := c.Query("endpoint")
	if endpoint == "" {
		badRequest(c, "endpoint is required")
		return
	}

	sub, err := h.store.GetSubscription(c.Request.Context(), endpoint)
	if err != nil {
		fail(c, err, "subscription not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"endpoint": sub.Endpoint, "user_id": sub.UserID})
}

// GetNotificationPreference handles GET /notifications/preferences/:user_id.
// Users who never chose are reported as opted out.
func (h *Handler) GetNotificationPreference(c *gin.Context) {
	userID := c.Param("user_id")

	pref, err := h.store.GetNotificationPreference(c.Request.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "notifications_enabled": false})
		return
	}
	if err != nil {
		fail(c, err, "")
		return
	}

	c.JSON(http.StatusOK, pref)
}

type putPreferenceRequest struct {
	UserID               string `json:"user_id"`
	NotificationsEnabled *bool  `json:"notifications_enabled" binding:"required"`
}

// PutNotificationPreference handles PUT /notifications/preferences.
func (h *Handler) PutNotificationPreference(c *gin.Context) {
	var req putPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "notifications_enabled is required")
		return
	}

	userID := h.identity.ProfileID(c, req.UserID)
	if userID == "" {
		badRequest(c, "user_id is required")
		return
	}

	pref, err := h.store.SetNotificationPreference(c.Request.Context(), userID, *req.NotificationsEnabled)
	if err != nil {
		fail(c, err, "")
		return
	}

	c.JSON(http.StatusOK, pref)
}
