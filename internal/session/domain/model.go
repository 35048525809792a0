package domain

// State is the single lifecycle value of an editing session.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoaded        State = "loaded"
	StateValidating    State = "validating"
	StateValidated     State = "validated"
	StateStale         State = "stale"
)

// Channel names, one per editing surface.
const (
	ChannelRoomEquipment = "room-equipment"
	ChannelOptions       = "options"
	ChannelRooms         = "rooms"
)

// Project is what a session needs to know about the project record.
type Project struct {
	ID         string
	PostalCode string
}

type WriteStatus struct {
	Pending bool   `json:"pending"`
	Error   string `json:"error,omitempty"`
}
