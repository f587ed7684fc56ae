package shelf

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
)

// Severity tells the presentation layer how to style a Notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Kind names the event a Notification reports.
type Kind string

const (
	KindBookAdded      Kind = "book_added"
	KindBookDeleted    Kind = "book_deleted"
	KindBookMoved      Kind = "book_moved"
	KindBooksImported  Kind = "books_imported"
	KindImportRejected Kind = "import_rejected"
	KindBooksExported  Kind = "books_exported"
	KindBooksReset     Kind = "books_reset"
	KindBookNotFound   Kind = "book_not_found"
	KindInvalidInput   Kind = "invalid_input"
	KindWelcome        Kind = "welcome"
	KindFailure        Kind = "failure"
)

const (
	msgWelcome        = "Welcome to your bookshelf! Add your first book to get started."
	msgBookAdded      = "Book %q added"
	msgBookDeleted    = "Book %q deleted"
	msgBookMoved      = "Book %q moved to %s"
	msgBookNotFound   = "Book not found"
	msgBooksImported  = "Books imported"
	msgImportRejected = "Invalid file format"
	msgBooksExported  = "Books exported"
	msgBooksReset     = "All book data deleted"
	msgAddFailed      = "The book could not be saved"
	msgDeleteFailed   = "The book could not be deleted"
	msgMoveFailed     = "The book could not be moved"
	msgImportFailed   = "The books could not be imported"
	msgExportFailed   = "The books could not be exported"
	msgResetFailed    = "The book data could not be deleted"
	shelfNameRead     = "Read"
	shelfNameUnread   = "Unread"
)

// Notification is a transient message for the user. Record is set for events about a single book.
type Notification struct {
	Kind     Kind
	Severity Severity
	Message  string
	Record   *recordstore.BookRecord
}

// Notifier is the presentation collaborator. It alone decides how views and notifications are shown.
type Notifier interface {
	Notify(ctx context.Context, notification Notification)
	Render(ctx context.Context, view View)
}

func bookAdded(record recordstore.BookRecord) Notification {
	return Notification{
		Kind:     KindBookAdded,
		Severity: SeveritySuccess,
		Message:  fmt.Sprintf(msgBookAdded, record.Title),
		Record:   &record,
	}
}

func bookDeleted(record recordstore.BookRecord) Notification {
	return Notification{
		Kind:     KindBookDeleted,
		Severity: SeveritySuccess,
		Message:  fmt.Sprintf(msgBookDeleted, record.Title),
		Record:   &record,
	}
}

func bookMoved(record recordstore.BookRecord) Notification {
	return Notification{
		Kind:     KindBookMoved,
		Severity: SeveritySuccess,
		Message:  fmt.Sprintf(msgBookMoved, record.Title, ShelfName(record.IsComplete)),
		Record:   &record,
	}
}

func failure(message string) Notification {
	return Notification{Kind: KindFailure, Severity: SeverityError, Message: message}
}

// ShelfName returns the display name of the shelf a record with the given flag belongs to.
func ShelfName(isComplete bool) string {
	if isComplete {
		return shelfNameRead
	}

	return shelfNameUnread
}
