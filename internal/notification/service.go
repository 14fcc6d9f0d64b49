package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultLimit = 50

type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationService keeps the most recent dataset notices in memory.
// Older entries are dropped once the limit is reached.
type NotificationService struct {
	mu            sync.Mutex
	notifications []Notification
	limit         int
}

func NewNotificationService(limit int) *NotificationService {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &NotificationService{
		notifications: make([]Notification, 0, limit),
		limit:         limit,
	}
}

func (ns *NotificationService) AddNotification(kind, message string) Notification {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	n := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}
	ns.notifications = append(ns.notifications, n)
	if len(ns.notifications) > ns.limit {
		ns.notifications = ns.notifications[len(ns.notifications)-ns.limit:]
	}
	return n
}

// GetNotifications returns the stored notices newest first.
func (ns *NotificationService) GetNotifications() []Notification {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	out := make([]Notification, len(ns.notifications))
	for i, n := range ns.notifications {
		out[len(ns.notifications)-1-i] = n
	}
	return out
}

func (ns *NotificationService) ClearNotifications() {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.notifications = ns.notifications[:0]
}

func (ns *NotificationService) Count() int {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return len(ns.notifications)
}
