package shelf

import (
	"fmt"
	"strings"

	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
)

const (
	msgEmptyShelf            = "No %s books yet"
	msgEmptyShelfWithKeyword = "No %s books with keyword %q"
)

// Counts are the shelf sizes of the whole collection, independent of the search term.
type Counts struct {
	Unread int `json:"unread"`
	Read   int `json:"read"`
}

// View is a disposable projection of the collection, recomputed after every change.
type View struct {
	SearchTerm string                  `json:"searchTerm"`
	Unread     recordstore.BookRecords `json:"unread"`
	Read       recordstore.BookRecords `json:"read"`
	Counts     Counts                  `json:"counts"`
}

// Project partitions records by their read flag, keeping their order.
// Counts are taken from stats so that a filtered view still shows the sizes of the full shelves.
func Project(records recordstore.BookRecords, stats recordstore.Stats, searchTerm string) View {
	view := View{
		SearchTerm: searchTerm,
		Unread:     make(recordstore.BookRecords, 0),
		Read:       make(recordstore.BookRecords, 0),
		Counts:     Counts{Unread: stats.Uncompleted, Read: stats.Completed},
	}

	for _, record := range records {
		if record.IsComplete {
			view.Read = append(view.Read, record)
		} else {
			view.Unread = append(view.Unread, record)
		}
	}

	return view
}

// EmptyUnreadMessage is the placeholder text for an empty unread list.
func (v View) EmptyUnreadMessage() string {
	return emptyShelfMessage(recordstore.ShelfUnread, v.SearchTerm)
}

// EmptyReadMessage is the placeholder text for an empty read list.
func (v View) EmptyReadMessage() string {
	return emptyShelfMessage(recordstore.ShelfRead, v.SearchTerm)
}

func emptyShelfMessage(shelf string, searchTerm string) string {
	searchTerm = strings.TrimSpace(searchTerm)
	if searchTerm == "" {
		return fmt.Sprintf(msgEmptyShelf, shelf)
	}

	return fmt.Sprintf(msgEmptyShelfWithKeyword, shelf, searchTerm)
}
