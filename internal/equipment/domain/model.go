package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Category string

const (
	CategoryEquipment Category = "equipment"
	CategoryOption    Category = "option"
)

func (c Category) Valid() bool {
	return c == CategoryEquipment || c == CategoryOption
}

// Equipment is one record of a project's equipment collection. Records of
// category equipment belong to a room; option records are project-wide.
type Equipment struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	RoomID   string   `json:"roomId,omitempty"`
	Category Category `json:"category"`
	Type     string   `json:"type,omitempty"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// ProjectEquipments is the stored equipment collection of a project.
type ProjectEquipments struct {
	ProjectID  string      `json:"projectId"`
	Equipments []Equipment `json:"equipments"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// Key is the dedupe key (roomId, category, type, name).
func (e Equipment) Key() string {
	room := e.RoomID
	if room == "" {
		room = "none"
	}
	typ := e.Type
	if typ == "" {
		typ = "none"
	}
	return room + "\x1f" + string(e.Category) + "\x1f" + typ + "\x1f" + e.Name
}

// Validate checks the record invariants: a name, a positive quantity and a
// roomId present exactly when the category is equipment.
func (e Equipment) Validate() error {
	return e.validateAt(0)
}

func (e Equipment) validateAt(i int) error {
	bad := func(reason string) error {
		return &MalformedError{Index: i, Name: e.Name, Reason: reason}
	}
	switch {
	case strings.TrimSpace(e.Name) == "":
		return bad("name is required")
	case e.Quantity <= 0:
		return bad(fmt.Sprintf("quantity must be positive, got %d", e.Quantity))
	case !e.Category.Valid():
		return bad(fmt.Sprintf("unknown category %q", e.Category))
	case e.Category == CategoryEquipment && e.RoomID == "":
		return bad("room equipment requires a roomId")
	case e.Category == CategoryOption && e.RoomID != "":
		return bad("option equipment cannot reference a room")
	}
	if err := e.Metadata.Validate(); err != nil {
		return bad(err.Error())
	}
	return nil
}

// Metadata is the open key/value map attached to a record, e.g. color.
type Metadata map[string]json.RawMessage

// Validate rejects values that are not valid JSON.
func (m Metadata) Validate() error {
	for k, v := range m {
		if !json.Valid(v) {
			return fmt.Errorf("%w: key %q", ErrInvalidMetadata, k)
		}
	}
	return nil
}

func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// With returns a copy of m with key set to the JSON encoding of v.
func (m Metadata) With(key string, v any) Metadata {
	out := m.Clone()
	if out == nil {
		out = Metadata{}
	}
	out[key] = RawJSON(v)
	return out
}

func (m Metadata) GetString(key string) (string, bool) {
	raw, ok := m[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func (m Metadata) GetInt(key string) (int, bool) {
	raw, ok := m[key]
	if !ok {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

// Decode unmarshals the value under key into dst.
func (m Metadata) Decode(key string, dst any) bool {
	raw, ok := m[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// RawJSON encodes v, falling back to null.
func RawJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}
