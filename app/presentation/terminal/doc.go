// Package terminal renders shelf views and notifications as styled text for a terminal.
package terminal
