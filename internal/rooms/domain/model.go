package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Room is one analysed or user-entered room of a project. Equipment is not
// owned by rooms; equipment records reference a room by ID.
type Room struct {
	ID       string                     `json:"id"`
	Name     string                     `json:"name"`
	Surface  float64                    `json:"surface"`
	RoomType string                     `json:"roomType,omitempty"`
	Options  map[string]json.RawMessage `json:"options,omitempty"`
}

// ProjectRooms is the stored room configuration of a project.
// SurfaceLoiCarrez is always TotalSurface(Rooms).
type ProjectRooms struct {
	ID               string    `json:"id"`
	ProjectID        string    `json:"projectId"`
	Rooms            []Room    `json:"rooms"`
	SurfaceLoiCarrez float64   `json:"surfaceLoiCarrez"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Validate checks the name and surface invariants.
func (r Room) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRoom)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: room name cannot be empty", ErrInvalidRoom)
	}
	if r.Surface <= 0 {
		return fmt.Errorf("%w: room %q surface must be positive", ErrInvalidRoom, r.Name)
	}
	return nil
}

// EffectiveType returns the NF C 15-100 room type code of the room. Older
// clients kept the type under options.roomType, sometimes as a UI label.
func (r Room) EffectiveType() string {
	t := r.RoomType
	if t == "" && r.Options != nil {
		if raw, ok := r.Options["roomType"]; ok {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				t = s
			}
		}
	}
	return NormalizeRoomType(t)
}

// ValidateAll validates each room and rejects duplicated IDs.
func ValidateAll(rooms []Room) error {
	seen := make(map[string]struct{}, len(rooms))
	for _, r := range rooms {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateRoomID, r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}
