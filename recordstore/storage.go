package recordstore

import "context"

const (
	// BooksKey is the storage key that holds the whole book collection as a JSON array.
	BooksKey = "bookshelf_books"

	// DebugKey holds the debug-mode flag as "true" or "false".
	DebugKey = "bookshelf_debug"

	// ThemeKey holds the theme preference as "dark" or "light".
	ThemeKey = "bookshelf_theme"

	// VisitedKey marks that the application was opened before.
	VisitedKey = "bookshelf_visited"
)

// KeyValueStorage is the durable string storage the Store and the preferences persist into.
// Implementations must return found == false and a nil error for a missing key.
type KeyValueStorage interface {
	GetItem(ctx context.Context, key string) (value string, found bool, err error)
	SetItem(ctx context.Context, key string, value string) error
	RemoveItem(ctx context.Context, key string) error
}
