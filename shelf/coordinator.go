package shelf

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AntonStoeckl/bookshelf-store-go/preferences"
	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
)

const (
	exportFilenamePrefix = "bookshelf-backup-"
	exportFilenameSuffix = ".json"
	exportDateLayout     = "2006-01-02"

	logMsgOperationFailed   = "shelf operation failed: "
	logMsgMarkVisitedFailed = "storing the visited marker failed"
	logMsgInputRejected     = "book input rejected"
	logMsgImportRejected    = "import rejected"
	logAttrError            = "error"
	logAttrRecordID         = "record_id"
	operationAddBook        = "add_book"
	operationDeleteBook     = "delete_book"
	operationMoveBook       = "move_book"
	operationImportBooks    = "import_books"
	operationExportBooks    = "export_books"
	operationResetAll       = "reset_all"
)

// ErrNilStore is returned by New when no record store is supplied.
var ErrNilStore = errors.New("nil record store supplied")

// ErrNilNotifier is returned by New when no notifier is supplied.
var ErrNilNotifier = errors.New("nil notifier supplied")

// ErrResetNotConfirmed is returned by ResetAll when the user did not confirm.
var ErrResetNotConfirmed = errors.New("reset not confirmed by the user")

// ErrImportRejected is returned by ImportBooks when the text is not a JSON array.
var ErrImportRejected = errors.New("import rejected: not a JSON array")

// RecordStore is the part of recordstore.Store the Coordinator needs.
type RecordStore interface {
	GetAll(ctx context.Context) recordstore.BookRecords
	Add(ctx context.Context, input recordstore.BookInput) (recordstore.BookRecord, error)
	Update(ctx context.Context, id string, patch recordstore.BookPatch) (recordstore.BookRecord, error)
	Delete(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, keyword string) recordstore.BookRecords
	Stats(ctx context.Context) recordstore.Stats
	Clear(ctx context.Context) error
	ExportAll(ctx context.Context) (string, error)
	ImportAll(ctx context.Context, text string) (bool, error)
}

// Export is a serialized collection ready to be saved as a file.
type Export struct {
	Filename string
	Data     string
}

// Coordinator turns user actions into store calls, views and notifications.
type Coordinator struct {
	store      RecordStore
	notifier   Notifier
	prefs      *preferences.Preferences
	clock      func() time.Time
	logger     recordstore.Logger
	validate   bool
	searchTerm string
}

// New creates a Coordinator with an empty search term.
func New(store RecordStore, notifier Notifier, options ...Option) (*Coordinator, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	if notifier == nil {
		return nil, ErrNilNotifier
	}

	c := &Coordinator{
		store:    store,
		notifier: notifier,
		clock:    time.Now,
	}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Start renders the initial view. On the first visit it also greets the user, if preferences are configured.
func (c *Coordinator) Start(ctx context.Context) View {
	view := c.render(ctx)

	if c.prefs != nil && c.prefs.FirstVisit(ctx) {
		c.notifier.Notify(ctx, Notification{Kind: KindWelcome, Severity: SeverityInfo, Message: msgWelcome})

		if err := c.prefs.MarkVisited(ctx); err != nil {
			c.logError(logMsgMarkVisitedFailed, err)
		}
	}

	return view
}

// SearchTerm returns the current search term.
func (c *Coordinator) SearchTerm() string {
	return c.searchTerm
}

// SetSearchTerm replaces the search term and renders the filtered view.
func (c *Coordinator) SetSearchTerm(ctx context.Context, term string) View {
	c.searchTerm = term

	return c.render(ctx)
}

// UseSearchTerm replaces the search term without rendering. The next rendered view is filtered by it.
func (c *Coordinator) UseSearchTerm(term string) {
	c.searchTerm = term
}

// CurrentView projects the records matching the search term, or all records for an empty term.
func (c *Coordinator) CurrentView(ctx context.Context) View {
	var records recordstore.BookRecords
	if strings.TrimSpace(c.searchTerm) == "" {
		records = c.store.GetAll(ctx)
	} else {
		records = c.store.Search(ctx, c.searchTerm)
	}

	return Project(records, c.store.Stats(ctx), c.searchTerm)
}

// Stats counts the whole collection.
func (c *Coordinator) Stats(ctx context.Context) recordstore.Stats {
	return c.store.Stats(ctx)
}

// AddBook stores a new book. With WithValidationGuard the input is validated first
// and a recordstore.ValidationErrors is returned for invalid input.
// On failure nothing is rendered.
func (c *Coordinator) AddBook(ctx context.Context, input recordstore.BookInput) (recordstore.BookRecord, error) {
	if c.validate {
		if err := recordstore.Validate(input, c.clock()); err != nil {
			c.logWarn(logMsgInputRejected, logAttrError, err.Error())
			c.notifier.Notify(ctx, Notification{Kind: KindInvalidInput, Severity: SeverityError, Message: err.Error()})

			return recordstore.BookRecord{}, err
		}
	}

	record, err := c.store.Add(ctx, input)
	if err != nil {
		c.logError(logMsgOperationFailed+operationAddBook, err)
		c.notifier.Notify(ctx, failure(msgAddFailed))

		return recordstore.BookRecord{}, err
	}

	c.render(ctx)
	c.notifier.Notify(ctx, bookAdded(record))

	return record, nil
}

// DeleteBook removes the book with the given id.
// It returns recordstore.ErrRecordNotFound if no such book exists.
func (c *Coordinator) DeleteBook(ctx context.Context, id string) error {
	// the title is needed for the notification after the record is gone
	record, _ := c.find(ctx, id)

	deleted, err := c.store.Delete(ctx, id)
	if err != nil {
		c.logError(logMsgOperationFailed+operationDeleteBook, err, logAttrRecordID, id)
		c.notifier.Notify(ctx, failure(msgDeleteFailed))

		return err
	}

	if !deleted {
		c.notifyNotFound(ctx)
		return recordstore.ErrRecordNotFound
	}

	c.render(ctx)
	c.notifier.Notify(ctx, bookDeleted(record))

	return nil
}

// MoveBook puts the book with the given id on the other shelf and returns the updated record.
// It returns recordstore.ErrRecordNotFound if no such book exists.
func (c *Coordinator) MoveBook(ctx context.Context, id string) (recordstore.BookRecord, error) {
	record, found := c.find(ctx, id)
	if !found {
		c.notifyNotFound(ctx)
		return recordstore.BookRecord{}, recordstore.ErrRecordNotFound
	}

	isComplete := !record.IsComplete

	moved, err := c.store.Update(ctx, id, recordstore.BookPatch{IsComplete: &isComplete})
	if errors.Is(err, recordstore.ErrRecordNotFound) {
		c.notifyNotFound(ctx)
		return recordstore.BookRecord{}, err
	}

	if err != nil {
		c.logError(logMsgOperationFailed+operationMoveBook, err, logAttrRecordID, id)
		c.notifier.Notify(ctx, failure(msgMoveFailed))

		return recordstore.BookRecord{}, err
	}

	c.render(ctx)
	c.notifier.Notify(ctx, bookMoved(moved))

	return moved, nil
}

// ExportBooks serializes the collection and names the file after the current date.
func (c *Coordinator) ExportBooks(ctx context.Context) (Export, error) {
	data, err := c.store.ExportAll(ctx)
	if err != nil {
		c.logError(logMsgOperationFailed+operationExportBooks, err)
		c.notifier.Notify(ctx, failure(msgExportFailed))

		return Export{}, err
	}

	c.notifier.Notify(ctx, Notification{Kind: KindBooksExported, Severity: SeveritySuccess, Message: msgBooksExported})

	return Export{Filename: ExportFilename(c.clock()), Data: data}, nil
}

// ImportBooks replaces the collection with the JSON array in text.
// Text that is not a JSON array returns ErrImportRejected and leaves the collection untouched.
func (c *Coordinator) ImportBooks(ctx context.Context, text string) error {
	accepted, err := c.store.ImportAll(ctx, text)
	if err != nil {
		c.logError(logMsgOperationFailed+operationImportBooks, err)
		c.notifier.Notify(ctx, failure(msgImportFailed))

		return err
	}

	if !accepted {
		c.logWarn(logMsgImportRejected)
		c.notifier.Notify(ctx, Notification{Kind: KindImportRejected, Severity: SeverityError, Message: msgImportRejected})

		return ErrImportRejected
	}

	c.render(ctx)
	c.notifier.Notify(ctx, Notification{Kind: KindBooksImported, Severity: SeveritySuccess, Message: msgBooksImported})

	return nil
}

// ResetAll deletes every book. The presentation layer asks the user first and passes the answer as confirmed.
func (c *Coordinator) ResetAll(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrResetNotConfirmed
	}

	if err := c.store.Clear(ctx); err != nil {
		c.logError(logMsgOperationFailed+operationResetAll, err)
		c.notifier.Notify(ctx, failure(msgResetFailed))

		return err
	}

	c.render(ctx)
	c.notifier.Notify(ctx, Notification{Kind: KindBooksReset, Severity: SeverityWarning, Message: msgBooksReset})

	return nil
}

// ExportFilename returns the suggested backup file name for the day of now.
func ExportFilename(now time.Time) string {
	return exportFilenamePrefix + now.Format(exportDateLayout) + exportFilenameSuffix
}

func (c *Coordinator) render(ctx context.Context) View {
	view := c.CurrentView(ctx)
	c.notifier.Render(ctx, view)

	return view
}

func (c *Coordinator) find(ctx context.Context, id string) (recordstore.BookRecord, bool) {
	for _, record := range c.store.GetAll(ctx) {
		if record.ID == id {
			return record, true
		}
	}

	return recordstore.BookRecord{}, false
}

func (c *Coordinator) notifyNotFound(ctx context.Context) {
	c.notifier.Notify(ctx, Notification{Kind: KindBookNotFound, Severity: SeverityError, Message: msgBookNotFound})
}

func (c *Coordinator) logWarn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

func (c *Coordinator) logError(msg string, err error, args ...any) {
	if c.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		c.logger.Error(msg, allArgs...)
	}
}
