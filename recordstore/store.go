package recordstore

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	logMsgCollectionUnreadable = "book collection unreadable, continuing with an empty collection"
	logMsgCollectionCorrupt    = "stored book collection is corrupt, continuing with an empty collection"
	logMsgRecordsSkipped       = "skipped stored elements that are not book records"
	logMsgWriteFailed          = "persisting the book collection failed"
	logMsgClearFailed          = "removing the book collection failed"
	logMsgEncodeFailed         = "encoding the book collection failed"
	logMsgImportRejected       = "import rejected"
	logMsgOperation            = "recordstore operation: "
	logAttrError               = "error"
	logAttrRecordID            = "record_id"
	logAttrRecordCount         = "record_count"
	logAttrSkippedCount        = "skipped_count"
	logAttrDurationMS          = "duration_ms"
	logAttrStorageKey          = "storage_key"
	operationGetAll            = "get_all"
	operationAdd               = "add"
	operationUpdate            = "update"
	operationDelete            = "delete"
	operationSearch            = "search"
	operationStats             = "stats"
	operationClear             = "clear"
	operationExport            = "export"
	operationImport            = "import"
)

// Store owns the persisted book collection. All reads and writes of records pass through it.
//
// Every mutation reads the collection from storage, applies the change and writes the full collection back.
// Read-modify-write sequences are not atomic across processes sharing the same storage: the last write wins.
type Store struct {
	storage          KeyValueStorage
	storageKey       string
	clock            func() time.Time
	generateID       func() string
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewStore creates a Store on top of the given KeyValueStorage with optional configuration.
func NewStore(storage KeyValueStorage, options ...Option) (*Store, error) {
	if storage == nil {
		return nil, ErrNilStorage
	}

	s := &Store{
		storage:    storage,
		storageKey: BooksKey,
		clock:      time.Now,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// GetAll returns all records in insertion order.
// An unreadable or corrupt collection is logged and degrades to an empty result.
func (s *Store) GetAll(ctx context.Context) BookRecords {
	observer, ctx := s.startObservation(ctx, operationGetAll)

	collection, err := s.load(ctx)
	if err != nil {
		if errors.Is(err, ErrCorruptCollection) {
			s.logWarn(ctx, logMsgCollectionCorrupt, logAttrError, err.Error())
		} else {
			s.logError(ctx, logMsgCollectionUnreadable, err)
		}

		observer.finishError(err, errorTypeRead)

		return BookRecords{}
	}

	observer.finishSuccess(len(collection.records))

	return collection.records
}

// Add stores a new record built from the input and returns it.
// Title and author are trimmed, id and creation time are assigned here.
// Field constraints are not checked, see Validate.
func (s *Store) Add(ctx context.Context, input BookInput) (BookRecord, error) {
	observer, ctx := s.startObservation(ctx, operationAdd)

	collection, err := s.loadForWrite(ctx)
	if err != nil {
		observer.finishError(err, errorTypeRead)
		return BookRecord{}, err
	}

	now := s.clock()
	record := BookRecord{
		ID:         s.newID(now),
		Title:      strings.TrimSpace(input.Title),
		Author:     strings.TrimSpace(input.Author),
		Year:       input.Year,
		IsComplete: input.IsComplete,
		CreatedAt:  ToCreatedAt(now),
	}

	collection.records = append(collection.records, record)

	if err = s.persist(ctx, collection); err != nil {
		observer.finishError(err, errorTypeWrite)
		return BookRecord{}, err
	}

	s.logOperation(ctx, operationAdd, logAttrRecordID, record.ID, logAttrRecordCount, len(collection.records))
	observer.finishMutation(len(collection.records))

	return record, nil
}

// Update merges the patch onto the record with the given id, persists and returns the merged record.
// It returns ErrRecordNotFound if no record has that id.
func (s *Store) Update(ctx context.Context, id string, patch BookPatch) (BookRecord, error) {
	observer, ctx := s.startObservation(ctx, operationUpdate)

	collection, err := s.loadForWrite(ctx)
	if err != nil {
		observer.finishError(err, errorTypeRead)
		return BookRecord{}, err
	}

	records := collection.records
	index := indexOf(records, id)
	if index < 0 {
		observer.finishError(ErrRecordNotFound, errorTypeNotFound)
		return BookRecord{}, ErrRecordNotFound
	}

	updated := patch.applyTo(records[index])
	records[index] = updated

	if err = s.persist(ctx, collection); err != nil {
		observer.finishError(err, errorTypeWrite)
		return BookRecord{}, err
	}

	s.logOperation(ctx, operationUpdate, logAttrRecordID, id)
	observer.finishMutation(len(records))

	return updated, nil
}

// Delete removes every record with the given id and reports whether any was removed.
// An absent id returns false and leaves the storage untouched.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	observer, ctx := s.startObservation(ctx, operationDelete)

	collection, err := s.loadForWrite(ctx)
	if err != nil {
		observer.finishError(err, errorTypeRead)
		return false, err
	}

	records := collection.records
	remaining := make(BookRecords, 0, len(records))
	for _, record := range records {
		if record.ID != id {
			remaining = append(remaining, record)
		}
	}

	if len(remaining) == len(records) {
		observer.finishSuccess(len(records))
		return false, nil
	}

	collection.records = remaining

	if err = s.persist(ctx, collection); err != nil {
		observer.finishError(err, errorTypeWrite)
		return false, err
	}

	s.logOperation(ctx, operationDelete, logAttrRecordID, id, logAttrRecordCount, len(remaining))
	observer.finishMutation(len(remaining))

	return true, nil
}

// Search returns the records whose title, author or year contains the keyword, ignoring case.
// An empty or blank keyword returns all records.
func (s *Store) Search(ctx context.Context, keyword string) BookRecords {
	keyword = NormalizeKeyword(keyword)
	if keyword == "" {
		return s.GetAll(ctx)
	}

	observer, ctx := s.startObservation(ctx, operationSearch)

	collection, err := s.load(ctx)
	if err != nil {
		s.logWarn(ctx, logMsgCollectionUnreadable, logAttrError, err.Error())
		observer.finishError(err, errorTypeRead)

		return BookRecords{}
	}

	matches := make(BookRecords, 0)
	for _, record := range collection.records {
		if record.Matches(keyword) {
			matches = append(matches, record)
		}
	}

	observer.finishSuccess(len(matches))

	return matches
}

// Stats counts the records of the whole collection.
func (s *Store) Stats(ctx context.Context) Stats {
	return StatsOf(s.GetAll(ctx))
}

// StatsOf counts the given records.
func StatsOf(records BookRecords) Stats {
	stats := Stats{Total: len(records)}

	for _, record := range records {
		if record.IsComplete {
			stats.Completed++
		} else {
			stats.Uncompleted++
		}
	}

	return stats
}

// Clear removes the whole collection. It can not be undone, callers must confirm with the user first.
func (s *Store) Clear(ctx context.Context) error {
	observer, ctx := s.startObservation(ctx, operationClear)

	if err := s.storage.RemoveItem(ctx, s.storageKey); err != nil {
		s.logError(ctx, logMsgClearFailed, err, logAttrStorageKey, s.storageKey)
		observer.finishError(err, errorTypeWrite)

		return errors.Join(ErrStorageWriteFailed, err)
	}

	s.logOperation(ctx, operationClear)
	observer.finishMutation(0)

	return nil
}

// ExportAll serializes all records as a JSON array indented with two spaces.
func (s *Store) ExportAll(ctx context.Context) (string, error) {
	observer, ctx := s.startObservation(ctx, operationExport)

	collection, err := s.loadForWrite(ctx)
	if err != nil {
		observer.finishError(err, errorTypeRead)
		return "", err
	}

	data, err := encodeExport(collection.records)
	if err != nil {
		s.logError(ctx, logMsgEncodeFailed, err)
		observer.finishError(err, errorTypeEncode)

		return "", errors.Join(ErrEncodingCollectionFailed, err)
	}

	observer.finishSuccess(len(collection.records))

	return data, nil
}

// ImportAll replaces the whole collection with the JSON array in text.
// Text that is not valid JSON or not an array is rejected with false and the collection stays untouched.
// Elements of an accepted array are not validated.
// A non-nil error is only returned when persisting the accepted array fails.
func (s *Store) ImportAll(ctx context.Context, text string) (bool, error) {
	observer, ctx := s.startObservation(ctx, operationImport)

	elements, err := decodeArray(text)
	if err != nil {
		s.logWarn(ctx, logMsgImportRejected, logAttrError, errors.Join(ErrMalformedImport, err).Error())
		observer.finishError(ErrMalformedImport, errorTypeMalformedImport)

		return false, nil
	}

	encoded, err := encodeRawCollection(elements)
	if err != nil {
		s.logError(ctx, logMsgEncodeFailed, err)
		observer.finishError(err, errorTypeEncode)

		return false, errors.Join(ErrEncodingCollectionFailed, err)
	}

	if err = s.write(ctx, encoded); err != nil {
		observer.finishError(err, errorTypeWrite)
		return false, err
	}

	recordCount := 0
	for _, element := range elements {
		if isRecordElement(element) {
			recordCount++
		}
	}

	if skipped := len(elements) - recordCount; skipped > 0 {
		s.logWarn(ctx, logMsgRecordsSkipped, logAttrSkippedCount, skipped, logAttrStorageKey, s.storageKey)
	}

	s.logOperation(ctx, operationImport, logAttrRecordCount, recordCount)
	observer.finishMutation(recordCount)

	return true, nil
}

// load reads and decodes the collection. A missing key is an empty collection.
func (s *Store) load(ctx context.Context) (storedCollection, error) {
	text, found, err := s.storage.GetItem(ctx, s.storageKey)
	if err != nil {
		return storedCollection{}, errors.Join(ErrStorageReadFailed, err)
	}

	if !found || text == "" {
		return storedCollection{records: BookRecords{}}, nil
	}

	collection, err := decodeCollection(text)
	if err != nil {
		return storedCollection{}, errors.Join(ErrCorruptCollection, err)
	}

	if skipped := len(collection.foreign); skipped > 0 {
		s.logWarn(ctx, logMsgRecordsSkipped, logAttrSkippedCount, skipped, logAttrStorageKey, s.storageKey)
	}

	return collection, nil
}

// loadForWrite reads the collection before a mutation.
// A corrupt collection is logged and replaced, a failing storage aborts the mutation.
func (s *Store) loadForWrite(ctx context.Context) (storedCollection, error) {
	collection, err := s.load(ctx)
	if err == nil {
		return collection, nil
	}

	if errors.Is(err, ErrCorruptCollection) {
		s.logWarn(ctx, logMsgCollectionCorrupt, logAttrError, err.Error())
		return storedCollection{records: BookRecords{}}, nil
	}

	s.logError(ctx, logMsgCollectionUnreadable, err)

	return storedCollection{}, err
}

// persist encodes and writes the full collection.
func (s *Store) persist(ctx context.Context, collection storedCollection) error {
	encoded, err := encodeCollection(collection)
	if err != nil {
		s.logError(ctx, logMsgEncodeFailed, err)
		return errors.Join(ErrEncodingCollectionFailed, err)
	}

	return s.write(ctx, encoded)
}

func (s *Store) write(ctx context.Context, encoded string) error {
	if err := s.storage.SetItem(ctx, s.storageKey, encoded); err != nil {
		s.logError(ctx, logMsgWriteFailed, err, logAttrStorageKey, s.storageKey)
		return errors.Join(ErrStorageWriteFailed, err)
	}

	return nil
}

func (s *Store) newID(now time.Time) string {
	if s.generateID != nil {
		return s.generateID()
	}

	return generateIDAt(now)
}

func indexOf(records BookRecords, id string) int {
	for i, record := range records {
		if record.ID == id {
			return i
		}
	}

	return -1
}
