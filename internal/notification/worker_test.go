package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-food-backend/internal/dbtest"
	"campus-food-backend/internal/model"
	"campus-food-backend/internal/store"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func response(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(""))}
}

func seed(t *testing.T) (store.Store, *model.Event) {
	t.Helper()
	ctx := context.Background()
	st := store.NewGormStore(dbtest.Open(t))

	event := &model.Event{
		Name:         "Pizza Night",
		Organization: "CS Club",
		Location:     "Hall A",
		Date:         "2025-03-01",
		StartTime:    "18:00",
		Food:         []string{"pizza"},
	}
	require.NoError(t, st.CreateEvent(ctx, event))

	require.NoError(t, st.UpsertSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://push.example.com/on", P256DH: "k1", Auth: "a1", UserID: "u-on",
	}))
	require.NoError(t, st.UpsertSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://push.example.com/off", P256DH: "k2", Auth: "a2", UserID: "u-off",
	}))
	_, err := st.SetNotificationPreference(ctx, "u-on", true)
	require.NoError(t, err)
	_, err = st.SetNotificationPreference(ctx, "u-off", false)
	require.NoError(t, err)
	return st, event
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, 1, nil, &webpush.Options{})

	assert.True(t, wp.Dispatch(123))
	assert.False(t, wp.Dispatch(124), "full queue drops the job")

	select {
	case job := <-wp.jobs:
		assert.Equal(t, int64(123), job)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_AnnouncesToEnabledSubscribers(t *testing.T) {
	st, event := seed(t)
	wp := NewWorkerPool(1, 4, st, &webpush.Options{})

	var (
		mu        sync.Mutex
		endpoints []string
		payload   Payload
	)
	done := make(chan struct{}, 1)
	wp.sender = &mockSender{
		SendFunc: func(body []byte, sub *webpush.Subscription, _ *webpush.Options) (*http.Response, error) {
			mu.Lock()
			endpoints = append(endpoints, sub.Endpoint)
			assert.NoError(t, json.Unmarshal(body, &payload))
			mu.Unlock()
			done <- struct{}{}
			return response(http.StatusCreated), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)
	require.True(t, wp.Dispatch(event.ID))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not sent")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"https://push.example.com/on"}, endpoints)
	assert.Equal(t, NewPayload(event), payload)
	assert.Equal(t, "Pizza Night", payload.Name)
}

func TestWorkerPool_DeletesExpiredSubscription(t *testing.T) {
	st, event := seed(t)
	wp := NewWorkerPool(1, 1, st, &webpush.Options{})
	wp.sender = &mockSender{
		SendFunc: func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
			return response(http.StatusGone), nil
		},
	}

	wp.announceEvent(context.Background(), event.ID)

	_, err := st.GetSubscription(context.Background(), "https://push.example.com/on")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.GetSubscription(context.Background(), "https://push.example.com/off")
	assert.NoError(t, err, "subscribers with notifications off are untouched")
}

func TestWorkerPool_UnknownEventSendsNothing(t *testing.T) {
	st, _ := seed(t)
	wp := NewWorkerPool(1, 1, st, &webpush.Options{})
	wp.sender = &mockSender{
		SendFunc: func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
			t.Fatal("no notification expected")
			return nil, nil
		},
	}

	wp.announceEvent(context.Background(), 9999)
}
