// Package shelf derives renderable views from the record store and tells the presentation layer what happened.
//
// A Coordinator holds the search term of the session. Every mutation is delegated to the store,
// followed by a fresh View passed to Notifier.Render and a Notification passed to Notifier.Notify.
// The Coordinator is not safe for concurrent use: callers serving concurrent requests serialize access.
package shelf
