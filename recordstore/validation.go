package recordstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minTextLength = 2
	minYear       = 1000

	// FieldTitle, FieldAuthor and FieldYear name the validated input fields.
	FieldTitle  = "title"
	FieldAuthor = "author"
	FieldYear   = "year"
)

// FieldError describes one violated field constraint.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors collects all violated constraints of one BookInput.
type ValidationErrors []FieldError

// Error implements the error interface.
func (ve ValidationErrors) Error() string {
	messages := make([]string, 0, len(ve))
	for _, fe := range ve {
		messages = append(messages, fe.Field+": "+fe.Message)
	}

	return "invalid book input: " + strings.Join(messages, "; ")
}

// ForField returns the message for the given field, or an empty string.
func (ve ValidationErrors) ForField(field string) string {
	for _, fe := range ve {
		if fe.Field == field {
			return fe.Message
		}
	}

	return ""
}

// Validate checks a BookInput against the record constraints:
// trimmed title and author with at least two characters, and a year between 1000 and the year of now.
// It returns nil or ValidationErrors listing every violation.
func Validate(input BookInput, now time.Time) error {
	var violations ValidationErrors

	if utf8.RuneCountInString(strings.TrimSpace(input.Title)) < minTextLength {
		violations = append(violations, FieldError{
			Field:   FieldTitle,
			Message: fmt.Sprintf("title must have at least %d characters", minTextLength),
		})
	}

	if utf8.RuneCountInString(strings.TrimSpace(input.Author)) < minTextLength {
		violations = append(violations, FieldError{
			Field:   FieldAuthor,
			Message: fmt.Sprintf("author must have at least %d characters", minTextLength),
		})
	}

	currentYear := now.Year()
	if input.Year < minYear || input.Year > currentYear {
		violations = append(violations, FieldError{
			Field:   FieldYear,
			Message: fmt.Sprintf("year must be between %d and %d", minYear, currentYear),
		})
	}

	if len(violations) == 0 {
		return nil
	}

	return violations
}

// CoerceYear converts form text to a year the way form inputs are read:
// surrounding whitespace is ignored and the leading decimal digits are used.
// Text without leading digits yields 0, which fails validation.
func CoerceYear(text string) int {
	text = strings.TrimSpace(text)

	end := 0
	if end < len(text) && (text[end] == '-' || text[end] == '+') {
		end++
	}

	digitsStart := end
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}

	if end == digitsStart {
		return 0
	}

	year, err := strconv.Atoi(text[:end])
	if err != nil {
		return 0
	}

	return year
}
