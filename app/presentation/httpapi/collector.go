package httpapi

import (
	"context"

	"github.com/AntonStoeckl/bookshelf-store-go/shelf"
)

// collector is the shelf.Notifier of the server. It keeps what one request produced.
type collector struct {
	notifications []shelf.Notification
	view          *shelf.View
}

func (c *collector) Notify(_ context.Context, notification shelf.Notification) {
	c.notifications = append(c.notifications, notification)
}

func (c *collector) Render(_ context.Context, view shelf.View) {
	c.view = &view
}

func (c *collector) reset() {
	c.notifications = nil
	c.view = nil
}
