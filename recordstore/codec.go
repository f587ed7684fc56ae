package recordstore

import (
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	jsonID         = "id"
	jsonTitle      = "title"
	jsonAuthor     = "author"
	jsonYear       = "year"
	jsonIsComplete = "isComplete"
	jsonCreatedAt  = "createdAt"
	exportIndent   = "  "
)

var json = jsoniter.ConfigFastest

// storedCollection is the decoded content of the collection key.
// Elements that are not JSON objects can not be book records; they are kept verbatim in foreign
// so that a mutation writes them back instead of dropping them.
type storedCollection struct {
	records BookRecords
	foreign []jsoniter.RawMessage
}

// recordDocument is the stored and exported form of a BookRecord. A zero creation time is omitted.
type recordDocument struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Year       int    `json:"year"`
	IsComplete bool   `json:"isComplete"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// decodeCollection reads a stored collection. Fields of the wrong type are read leniently.
func decodeCollection(text string) (storedCollection, error) {
	elements, err := decodeArray(text)
	if err != nil {
		return storedCollection{}, err
	}

	collection := storedCollection{records: make(BookRecords, 0, len(elements))}

	for _, element := range elements {
		record, ok := decodeRecord(json.Get(element))
		if !ok {
			collection.foreign = append(collection.foreign, element)
			continue
		}

		collection.records = append(collection.records, record)
	}

	return collection, nil
}

// decodeArray parses text that must hold exactly one JSON array.
func decodeArray(text string) ([]jsoniter.RawMessage, error) {
	if !strings.HasPrefix(strings.TrimLeft(text, " \t\r\n"), "[") {
		return nil, ErrMalformedImport
	}

	var elements []jsoniter.RawMessage
	if err := json.UnmarshalFromString(text, &elements); err != nil {
		return nil, err
	}

	if elements == nil {
		elements = make([]jsoniter.RawMessage, 0)
	}

	return elements, nil
}

func isRecordElement(element jsoniter.RawMessage) bool {
	return json.Get(element).ValueType() == jsoniter.ObjectValue
}

func decodeRecord(element jsoniter.Any) (BookRecord, bool) {
	if element.ValueType() != jsoniter.ObjectValue {
		return BookRecord{}, false
	}

	record := BookRecord{
		ID:         element.Get(jsonID).ToString(),
		Title:      element.Get(jsonTitle).ToString(),
		Author:     element.Get(jsonAuthor).ToString(),
		Year:       element.Get(jsonYear).ToInt(),
		IsComplete: element.Get(jsonIsComplete).ToBool(),
	}

	if createdAt := element.Get(jsonCreatedAt); createdAt.ValueType() == jsoniter.StringValue {
		if parsed, err := time.Parse(time.RFC3339Nano, createdAt.ToString()); err == nil {
			record.CreatedAt = parsed
		}
	}

	return record, true
}

func toDocuments(records BookRecords) []recordDocument {
	documents := make([]recordDocument, 0, len(records))

	for _, record := range records {
		document := recordDocument{
			ID:         record.ID,
			Title:      record.Title,
			Author:     record.Author,
			Year:       record.Year,
			IsComplete: record.IsComplete,
		}
		if !record.CreatedAt.IsZero() {
			document.CreatedAt = record.CreatedAt.Format(time.RFC3339Nano)
		}

		documents = append(documents, document)
	}

	return documents
}

// encodeCollection writes the records followed by the foreign elements.
func encodeCollection(collection storedCollection) (string, error) {
	if len(collection.foreign) == 0 {
		return json.MarshalToString(toDocuments(collection.records))
	}

	elements := make([]jsoniter.RawMessage, 0, len(collection.records)+len(collection.foreign))

	for _, document := range toDocuments(collection.records) {
		element, err := json.Marshal(document)
		if err != nil {
			return "", err
		}

		elements = append(elements, element)
	}

	return encodeRawCollection(append(elements, collection.foreign...))
}

func encodeRawCollection(elements []jsoniter.RawMessage) (string, error) {
	return json.MarshalToString(elements)
}

// encodeExport writes the records only, indented with two spaces.
func encodeExport(records BookRecords) (string, error) {
	data, err := json.MarshalIndent(toDocuments(records), "", exportIndent)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
