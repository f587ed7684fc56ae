package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/AntonStoeckl/bookshelf-store-go/preferences"
	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
	"github.com/AntonStoeckl/bookshelf-store-go/shelf"
)

const (
	headingUnread = "Unread"
	headingRead   = "Read"
	headingFormat = "%s (%d)"
	bookFormat    = "  %s  %s by %s (%d)"
	statsFormat   = "Total: %d  Read: %d  Unread: %d"
	searchFormat  = "Search: %q"
	iconSuccess   = "✓"
	iconError     = "✗"
	iconWarning   = "!"
	iconInfo      = "i"
	indentEmpty   = "  "
	lineSeparator = "\n"
)

// Renderer is a shelf.Notifier printing to a writer.
// Views are only printed when ShowViews is set, so one-shot commands can print just the outcome.
type Renderer struct {
	out       io.Writer
	styles    Styles
	showViews bool
}

// NewRenderer creates a Renderer for out using the colors of theme.
func NewRenderer(out io.Writer, theme preferences.Theme, showViews bool) *Renderer {
	return &Renderer{
		out:       out,
		styles:    NewStyles(out, theme),
		showViews: showViews,
	}
}

// Notify prints the notification as a single line.
func (r *Renderer) Notify(_ context.Context, notification shelf.Notification) {
	icon := severityIcon(notification.Severity)
	line := r.styles.Severity(notification.Severity).Render(icon + " " + notification.Message)
	_, _ = fmt.Fprintln(r.out, line)
}

// Render prints the view if views are enabled.
func (r *Renderer) Render(_ context.Context, view shelf.View) {
	if r.showViews {
		r.PrintView(view)
	}
}

// PrintView prints both shelves of view.
func (r *Renderer) PrintView(view shelf.View) {
	_, _ = io.WriteString(r.out, r.FormatView(view))
}

// FormatView returns the text of both shelves.
func (r *Renderer) FormatView(view shelf.View) string {
	var b strings.Builder

	if strings.TrimSpace(view.SearchTerm) != "" {
		b.WriteString(r.styles.Muted.Render(fmt.Sprintf(searchFormat, view.SearchTerm)))
		b.WriteString(lineSeparator)
	}

	r.writeShelf(&b, fmt.Sprintf(headingFormat, headingUnread, view.Counts.Unread), view.Unread, view.EmptyUnreadMessage())
	b.WriteString(lineSeparator)
	r.writeShelf(&b, fmt.Sprintf(headingFormat, headingRead, view.Counts.Read), view.Read, view.EmptyReadMessage())

	return b.String()
}

// FormatStats returns the one-line summary of stats.
func (r *Renderer) FormatStats(stats recordstore.Stats) string {
	return r.styles.Heading.Render(fmt.Sprintf(statsFormat, stats.Total, stats.Completed, stats.Uncompleted)) + lineSeparator
}

func (r *Renderer) writeShelf(b *strings.Builder, heading string, records recordstore.BookRecords, emptyMessage string) {
	b.WriteString(r.styles.Heading.Render(heading))
	b.WriteString(lineSeparator)

	if len(records) == 0 {
		b.WriteString(indentEmpty + r.styles.Muted.Render(emptyMessage))
		b.WriteString(lineSeparator)

		return
	}

	for _, record := range records {
		b.WriteString(r.styles.Book.Render(fmt.Sprintf(bookFormat, record.ID, record.Title, record.Author, record.Year)))
		b.WriteString(lineSeparator)
	}
}

func severityIcon(severity shelf.Severity) string {
	switch severity {
	case shelf.SeveritySuccess:
		return iconSuccess
	case shelf.SeverityError:
		return iconError
	case shelf.SeverityWarning:
		return iconWarning
	default:
		return iconInfo
	}
}

var _ shelf.Notifier = (*Renderer)(nil)
