package internal

import (
	"bytes"
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-food-backend/config"
	"campus-food-backend/internal/api"
	"campus-food-backend/internal/auth"
	"campus-food-backend/internal/dbtest"
	"campus-food-backend/internal/model"
	"campus-food-backend/internal/notification"
	"campus-food-backend/internal/store"
)

func call(t *testing.T, router http.Handler, method, path string, body any) (int, map[string]json.RawMessage) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(method, path, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var out map[string]json.RawMessage
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func subscriberKeys(t *testing.T) (string, string) {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	secret := make([]byte, 16)
	_, err = rand.Read(secret)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		base64.RawURLEncoding.EncodeToString(secret)
}

// TestReservationLifecycle drives an event from creation through
// reservations, a sold-out item, cancellation and the dashboard totals,
// with push delivery going to a local push service.
func TestReservationLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// --- Test Setup ---
	var (
		mu       sync.Mutex
		received = map[string]int{}
	)
	pushService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		received[r.URL.Path]++
		mu.Unlock()
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer pushService.Close()

	vapidPrivate, vapidPublic, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)
	webpushOptions := &webpush.Options{
		VAPIDPublicKey:  vapidPublic,
		VAPIDPrivateKey: vapidPrivate,
		Subscriber:      "mailto:ops@example.edu",
		TTL:             60,
	}

	appStore := store.NewGormStore(dbtest.Open(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool := notification.NewWorkerPool(2, 8, appStore, webpushOptions)
	pool.Start(ctx)

	handler := api.NewHandler(api.Deps{
		Store:         appStore,
		Identity:      auth.NewResolver("integration-secret"),
		Notifier:      pool,
		Webpush:       webpushOptions,
		PoundsPerItem: 0.5,
	})
	router := api.NewRouter(handler, config.ServerConfig{
		RateLimitPerSec:    1000,
		RateLimitBurst:     1000,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	})

	for _, path := range []string{"/ok", "/gone"} {
		p256dh, secret := subscriberKeys(t)
		code, _ := call(t, router, http.MethodPut, "/notifications/subscription", map[string]any{
			"endpoint": pushService.URL + path,
			"p256dh":   p256dh,
			"auth":     secret,
			"user_id":  "student" + path,
		})
		require.Equal(t, http.StatusCreated, code)
		code, _ = call(t, router, http.MethodPut, "/notifications/preferences", map[string]any{
			"user_id":               "student" + path,
			"notifications_enabled": true,
		})
		require.Equal(t, http.StatusOK, code)
	}

	// --- Step 1: an organizer posts an event and its food ---
	code, body := call(t, router, http.MethodPost, "/event/", map[string]any{
		"name":         "Robotics Demo Day",
		"organization": "Robotics Club",
		"location":     "Engineering Atrium",
		"date":         "2025-04-12",
		"start_time":   "15:00",
		"food":         []string{"Pizza", "Cookies"},
	})
	require.Equal(t, http.StatusOK, code)
	var events []model.Event
	require.NoError(t, json.Unmarshal(body["data"], &events))
	require.Len(t, events, 1)
	eventID := events[0].ID

	code, body = call(t, router, http.MethodPost, "/food/", []map[string]any{
		{"name": "Pizza", "event_id": eventID, "quantity": 3},
		{"name": "Cookies", "event_id": eventID, "stockLevel": "high"},
	})
	require.Equal(t, http.StatusOK, code)
	var foods []model.Food
	require.NoError(t, json.Unmarshal(body["data"], &foods))
	require.Len(t, foods, 2)
	pizza, cookies := foods[0], foods[1]
	assert.Equal(t, model.StockLow, pizza.StockLevel)

	t.Run("Subscribers are notified", func(t *testing.T) {
		assert.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return received["/ok"] == 1 && received["/gone"] == 1
		}, 3*time.Second, 20*time.Millisecond)

		assert.Eventually(t, func() bool {
			_, err := appStore.GetSubscription(context.Background(), pushService.URL+"/gone")
			return err == store.ErrNotFound
		}, 3*time.Second, 20*time.Millisecond, "expired subscription should be removed")
	})

	// --- Step 2: students reserve until the pizza is gone ---
	t.Run("Reserve until sold out", func(t *testing.T) {
		code, body := call(t, router, http.MethodPut, "/reserve/", map[string]any{"food_id": pizza.ID, "quantity": 2, "profile_id": "alice"})
		require.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, "false", string(body["sold_out"]))

		code, body = call(t, router, http.MethodPut, "/reserve/", map[string]any{"food_id": pizza.ID, "quantity": 1, "profile_id": "bob"})
		require.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, "true", string(body["sold_out"]))

		code, _ = call(t, router, http.MethodPut, "/reserve/", map[string]any{"food_id": pizza.ID, "quantity": 1, "profile_id": "carol"})
		assert.Equal(t, http.StatusBadRequest, code)

		code, body = call(t, router, http.MethodPut, "/reserve/", map[string]any{"food_id": cookies.ID, "quantity": 5, "profile_id": "carol"})
		require.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, "true", string(body["unlimited"]))
	})

	// --- Step 3: a cancellation puts food back ---
	t.Run("Cancel returns stock", func(t *testing.T) {
		code, body := call(t, router, http.MethodPost, "/reserve/cancel", map[string]any{"food_id": pizza.ID, "quantity": 2, "profile_id": "alice"})
		require.Equal(t, http.StatusOK, code)

		var food model.Food
		require.NoError(t, json.Unmarshal(body["food_update"], &food))
		require.NotNil(t, food.Quantity)
		assert.Equal(t, 2, *food.Quantity)
		assert.Equal(t, model.StockLow, food.StockLevel)

		var profile model.Profile
		require.NoError(t, json.Unmarshal(body["profile_update"], &profile))
		assert.Empty(t, profile.ReservedItems)
	})

	// --- Step 4: the dashboard reflects who still holds food ---
	t.Run("Stats", func(t *testing.T) {
		code, body := call(t, router, http.MethodGet, "/stats", nil)
		require.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, "1", string(body["total_events"]))
		assert.JSONEq(t, "2", string(body["total_food_saved"]))
		assert.JSONEq(t, "2", string(body["active_users"]))
		assert.JSONEq(t, "1", string(body["total_pounds_rescued"]))
	})
}
