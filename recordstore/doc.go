// Package recordstore provides the persistence layer for a personal book collection.
//
// The Store is the single source of truth for book records. It keeps the whole
// collection as one JSON array under a fixed key of a KeyValueStorage and
// rewrites that array on every mutation. Nothing is cached in memory, so a
// write that fails leaves no committed change behind.
//
// Storage backends live in sub-packages:
//   - memoryengine: in-process storage with an optional byte quota
//   - sqlengine: a key/value table on PostgreSQL (pgx, sql.DB, sqlx) or SQLite
//   - redisengine: Redis strings via go-redis
//
// Key types:
//   - BookRecord: a stored book with id, title, author, year, read flag and creation time
//   - BookInput: the fields supplied when adding a book
//   - BookPatch: a partial update, id and creation time can not be patched
//   - Stats: total, completed and uncompleted counts
//
// Common usage pattern:
//
//	storage, err := memoryengine.NewStorage()
//	if err != nil {
//		// handle error
//	}
//
//	store, err := recordstore.NewStore(storage, recordstore.WithLogger(slog.Default()))
//	if err != nil {
//		// handle error
//	}
//
//	book, err := store.Add(ctx, recordstore.BookInput{Title: "Dune", Author: "Frank Herbert", Year: 1965})
//	if err != nil {
//		// storage error, nothing was written
//	}
//
//	done := true
//	_, err = store.Update(ctx, book.ID, recordstore.BookPatch{IsComplete: &done})
//	if errors.Is(err, recordstore.ErrRecordNotFound) {
//		// the book was deleted meanwhile
//	}
//
// Field validation is not enforced by the Store. Validate is a pure function that
// callers run before Add when they want the title, author and year constraints.
package recordstore
