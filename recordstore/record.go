package recordstore

import (
	"strconv"
	"strings"
	"time"
)

// BookRecord is a single book of the collection as it is persisted.
type BookRecord struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Year       int       `json:"year"`
	IsComplete bool      `json:"isComplete"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BookRecords is a collection of BookRecord in insertion order.
type BookRecords = []BookRecord

// BookInput holds the user supplied fields of a new book.
type BookInput struct {
	Title      string
	Author     string
	Year       int
	IsComplete bool
}

// BookPatch holds the fields an update may change. Nil fields are left untouched.
type BookPatch struct {
	Title      *string
	Author     *string
	Year       *int
	IsComplete *bool
}

// Stats holds counts over the whole collection.
type Stats struct {
	Total       int `json:"total"`
	Completed   int `json:"completed"`
	Uncompleted int `json:"uncompleted"`
}

// ToCreatedAt normalizes a timestamp the way it is persisted: UTC with millisecond precision.
func ToCreatedAt(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// Matches reports whether the normalized keyword is contained in title, author or year.
// The keyword must already be lowercased and trimmed.
func (r BookRecord) Matches(keyword string) bool {
	if keyword == "" {
		return true
	}

	return strings.Contains(strings.ToLower(r.Title), keyword) ||
		strings.Contains(strings.ToLower(r.Author), keyword) ||
		strings.Contains(strconv.Itoa(r.Year), keyword)
}

// Status returns the shelf name of the record.
func (r BookRecord) Status() string {
	if r.IsComplete {
		return ShelfRead
	}

	return ShelfUnread
}

const (
	// ShelfRead names the shelf of completed books.
	ShelfRead = "read"

	// ShelfUnread names the shelf of books still to read.
	ShelfUnread = "unread"
)

func (p BookPatch) applyTo(r BookRecord) BookRecord {
	if p.Title != nil {
		r.Title = *p.Title
	}

	if p.Author != nil {
		r.Author = *p.Author
	}

	if p.Year != nil {
		r.Year = *p.Year
	}

	if p.IsComplete != nil {
		r.IsComplete = *p.IsComplete
	}

	return r
}

// NormalizeKeyword lowercases and trims a search keyword.
func NormalizeKeyword(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}
