package httpapi

import (
	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
	"github.com/AntonStoeckl/bookshelf-store-go/shelf"
)

type bookRequest struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	Year       int    `json:"year"`
	IsComplete bool   `json:"isComplete"`
}

func (r bookRequest) toInput() recordstore.BookInput {
	return recordstore.BookInput{
		Title:      r.Title,
		Author:     r.Author,
		Year:       r.Year,
		IsComplete: r.IsComplete,
	}
}

type preferencesRequest struct {
	Theme *string `json:"theme"`
	Debug *bool   `json:"debug"`
}

type preferencesResponse struct {
	Theme string `json:"theme"`
	Debug bool   `json:"debug"`
}

type notificationResponse struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type response struct {
	View          *shelf.View             `json:"view,omitempty"`
	Book          *recordstore.BookRecord `json:"book,omitempty"`
	Notifications []notificationResponse  `json:"notifications"`
	Errors        map[string]string       `json:"errors,omitempty"`
	Error         string                  `json:"error,omitempty"`
}

func toNotificationResponses(notifications []shelf.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, notificationResponse{
			Kind:     string(n.Kind),
			Severity: string(n.Severity),
			Message:  n.Message,
		})
	}

	return out
}
