package helper

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/bookshelf-store-go/shelf"
)

// NotifierSpy is a shelf.Notifier that records everything it is asked to show.
type NotifierSpy struct {
	mu            sync.Mutex
	notifications []shelf.Notification
	views         []shelf.View
}

// NewNotifierSpy creates an empty NotifierSpy.
func NewNotifierSpy() *NotifierSpy {
	return &NotifierSpy{}
}

// Notify implements shelf.Notifier.
func (s *NotifierSpy) Notify(_ context.Context, notification shelf.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, notification)
}

// Render implements shelf.Notifier.
func (s *NotifierSpy) Render(_ context.Context, view shelf.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, view)
}

// Notifications returns a copy of all recorded notifications.
func (s *NotifierSpy) Notifications() []shelf.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]shelf.Notification(nil), s.notifications...)
}

// RenderCount returns how often a view was rendered.
func (s *NotifierSpy) RenderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.views)
}

// LastView returns the most recently rendered view.
func (s *NotifierSpy) LastView() (shelf.View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.views) == 0 {
		return shelf.View{}, false
	}

	return s.views[len(s.views)-1], true
}

// LastNotification returns the most recent notification.
func (s *NotifierSpy) LastNotification() (shelf.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.notifications) == 0 {
		return shelf.Notification{}, false
	}

	return s.notifications[len(s.notifications)-1], true
}

// Reset forgets all recorded calls.
func (s *NotifierSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
	s.views = nil
}
