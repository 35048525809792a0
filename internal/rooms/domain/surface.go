package domain

import "fmt"

// TotalSurface is the sum of the room surfaces. It is the only way the
// project total surface is ever produced.
func TotalSurface(rooms []Room) float64 {
	var total float64
	for _, r := range rooms {
		total += r.Surface
	}
	return total
}

// Add appends room to rooms and returns the new list.
func Add(rooms []Room, room Room) ([]Room, error) {
	for _, r := range rooms {
		if r.ID == room.ID {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoomID, room.ID)
		}
	}
	out := make([]Room, 0, len(rooms)+1)
	out = append(out, rooms...)
	return append(out, room), nil
}

// Update replaces the room carrying room.ID.
func Update(rooms []Room, room Room) ([]Room, error) {
	out := make([]Room, len(rooms))
	copy(out, rooms)
	for i := range out {
		if out[i].ID == room.ID {
			out[i] = room
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, room.ID)
}

// Remove drops the room with the given ID.
func Remove(rooms []Room, roomID string) ([]Room, error) {
	out := make([]Room, 0, len(rooms))
	found := false
	for _, r := range rooms {
		if r.ID == roomID {
			found = true
			continue
		}
		out = append(out, r)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return out, nil
}

// Purge empties the room list.
func Purge() []Room {
	return []Room{}
}
