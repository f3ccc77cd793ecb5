package catalog

import (
	"encoding/json"
)

// Field names of a catalog entry. All of them are required.
const (
	FieldID       = "id"
	FieldTitle    = "title"
	FieldPrice    = "price"
	FieldCurrency = "currency"
	FieldImage    = "image"
	FieldShort    = "short"
	FieldFeatures = "features"
	FieldLong     = "long"
)

// RequiredFields lists the entry keys in the order rejections report them.
var RequiredFields = []string{
	FieldID,
	FieldTitle,
	FieldPrice,
	FieldCurrency,
	FieldImage,
	FieldShort,
	FieldFeatures,
	FieldLong,
}

// RawEntry is one untrusted element of the pasadias list.
type RawEntry map[string]any

// Payload is the parsed catalog document. Only Pasadias matters for
// rendering; the other fields are optional.
type Payload struct {
	SiteName Value
	Phone    Value
	About    Value
	// Pasadias is the raw candidate list, left unchecked until Validate.
	Pasadias any
}

// Parse decodes a catalog document. Any well-formed JSON parses; a document
// that is not an object yields an empty payload.
func Parse(data []byte) (Payload, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Payload{}, &ParseError{Err: err}
	}
	obj, _ := doc.(map[string]any)
	p := Payload{
		SiteName: NewValue(obj["siteName"]),
		About:    NewValue(obj["about"]),
		Pasadias: obj["pasadias"],
	}
	if contact, ok := obj["contact"].(map[string]any); ok {
		p.Phone = NewValue(contact["phone"])
	}
	return p, nil
}

// ParseError reports a catalog body that is not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "catalog: parse document: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// Entry is a catalog entry that passed validation.
type Entry struct {
	ID       Value
	Title    Value
	Price    Value
	Currency Value
	Image    Value
	Short    Value
	Features []Value
	Long     Value
}

func entryFromRaw(raw RawEntry) Entry {
	items, _ := raw[FieldFeatures].([]any)
	features := make([]Value, len(items))
	for i, item := range items {
		features[i] = NewValue(item)
	}
	return Entry{
		ID:       NewValue(raw[FieldID]),
		Title:    NewValue(raw[FieldTitle]),
		Price:    NewValue(raw[FieldPrice]),
		Currency: NewValue(raw[FieldCurrency]),
		Image:    NewValue(raw[FieldImage]),
		Short:    NewValue(raw[FieldShort]),
		Features: features,
		Long:     NewValue(raw[FieldLong]),
	}
}
