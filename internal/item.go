package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrNoMoreItems    = errors.New("no more items")
	ErrInvalidItem    = errors.New("invalid item")
	ErrMalformedPath  = errors.New("malformed item path")
	ErrNotInitialized = errors.New("repository not initialized")
)

// NotFoundError reports a missing ref, item or commit. It matches ErrNotFound.
type NotFoundError struct {
	Kind string // "item", "ref" or "commit"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type fieldState uint8

const (
	fieldAbsent fieldState = iota
	fieldNull
	fieldText
)

// Field is one mutable item attribute. The zero value is absent: the field
// was never set. Null is an explicit null marker, serialized as JSON null.
type Field struct {
	text  string
	state fieldState
}

// Text returns a field holding s. An empty string is still a present value.
func Text(s string) Field {
	return Field{text: s, state: fieldText}
}

// Null returns the explicit null marker.
func Null() Field {
	return Field{state: fieldNull}
}

func (f Field) IsZero() bool    { return f.state == fieldAbsent }
func (f Field) IsNull() bool    { return f.state == fieldNull }
func (f Field) IsPresent() bool { return f.state != fieldAbsent }

// Value returns the text and whether the field holds text at all.
func (f Field) Value() (string, bool) {
	return f.text, f.state == fieldText
}

func (f Field) String() string {
	return f.text
}

func (f Field) MarshalJSON() ([]byte, error) {
	if f.state != fieldText {
		return []byte("null"), nil
	}
	return json.Marshal(f.text)
}

func (f *Field) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Null()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode field: %w", err)
	}
	*f = Text(s)
	return nil
}

type Item struct {
	ID          string `json:"id"`
	Title       Field  `json:"title,omitzero"`
	Description Field  `json:"description,omitzero"`
	Kind        Field  `json:"kind,omitzero"`
}

// AddItem is the input of Tracker.AddItem; the id is assigned on creation.
type AddItem struct {
	Title       Field
	Description Field
	Kind        Field
}

// EditItem patches an existing item. Absent fields keep their stored value,
// null and text values overwrite it.
type EditItem struct {
	ID          string
	Title       Field
	Description Field
	Kind        Field
}

// Field looks a field up by its serialized name. Unknown names are absent.
func (i Item) Field(name string) Field {
	switch name {
	case "id":
		return Text(i.ID)
	case "title":
		return i.Title
	case "description":
		return i.Description
	case "kind":
		return i.Kind
	}
	return Field{}
}

func (a AddItem) validate() error {
	if title, ok := a.Title.Value(); !ok || title == "" {
		return fmt.Errorf("%w: title is mandatory", ErrInvalidItem)
	}
	return nil
}

func (e EditItem) validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: id is mandatory", ErrInvalidItem)
	}
	return nil
}

// merge applies the provided fields of e on top of old.
func (e EditItem) merge(old Item) Item {
	merged := old
	merged.ID = e.ID
	if e.Title.IsPresent() {
		merged.Title = e.Title
	}
	if e.Description.IsPresent() {
		merged.Description = e.Description
	}
	if e.Kind.IsPresent() {
		merged.Kind = e.Kind
	}
	return merged
}
