package notification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"campus-food-backend/internal/metrics"
	"campus-food-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Store is the data the workers need to announce an event.
type Store interface {
	GetEvent(ctx context.Context, id int64) (*model.Event, error)
	SubscriptionsForNewEvents(ctx context.Context) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// Payload is the JSON body pushed to subscribers when an event is posted.
type Payload struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	Location     string `json:"location"`
}

// NewPayload builds the push body for an event.
func NewPayload(e *model.Event) Payload {
	return Payload{
		ID:           e.ID,
		Name:         e.Name,
		Organization: e.Organization,
		Date:         e.Date,
		StartTime:    e.StartTime,
		Location:     e.Location,
	}
}

// WorkerPool manages a pool of workers that announce new events.
type WorkerPool struct {
	size    int
	jobs    chan int64
	store   Store
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool with room for queueSize pending events.
func NewWorkerPool(size, queueSize int, st Store, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, queueSize),
		store:   st,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case eventID := <-wp.jobs:
			log.Printf("Worker %d announcing event %d", id, eventID)
			wp.announceEvent(ctx, eventID)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an event for announcement. It never blocks; when the
// queue is full the event is dropped and false is returned.
func (wp *WorkerPool) Dispatch(eventID int64) bool {
	select {
	case wp.jobs <- eventID:
		return true
	default:
		log.Printf("Notification queue full, dropping event %d", eventID)
		metrics.ObservePush("dropped")
		return false
	}
}

func (wp *WorkerPool) announceEvent(ctx context.Context, eventID int64) {
	event, err := wp.store.GetEvent(ctx, eventID)
	if err != nil {
		log.Printf("Error fetching event %d: %v", eventID, err)
		return
	}

	subscriptions, err := wp.store.SubscriptionsForNewEvents(ctx)
	if err != nil {
		log.Printf("Error fetching subscriptions for event %d: %v", eventID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(NewPayload(event))
	if err != nil {
		log.Printf("Error encoding payload for event %d: %v", eventID, err)
		return
	}

	log.Printf("Sending %d notifications for event %d", len(subscriptions), eventID)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		metrics.ObservePush("failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		metrics.ObservePush("expired")
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
		return
	}
	if resp.StatusCode >= 400 {
		log.Printf("Push service rejected notification to %s with status %d", sub.Endpoint, resp.StatusCode)
		metrics.ObservePush("failed")
		return
	}
	metrics.ObservePush("sent")
}
