package domain

import (
	"encoding/json"

	eqdomain "github.com/abplan/abplan-backend/internal/equipment/domain"
	roomdomain "github.com/abplan/abplan-backend/internal/rooms/domain"
)

const defaultEquipmentType = eqdomain.TypeSimpleSocket

// BuildRequest turns a project's rooms and equipment collection into an
// engine request. Only equipment-category records are sent, grouped under
// the room they reference; records pointing at an unknown room are ignored.
func BuildRequest(projectID, postalCode string, rooms []roomdomain.Room, equipment []eqdomain.Equipment) ValidationRequest {
	byRoom := make(map[string][]EquipmentPayload, len(rooms))
	for _, e := range eqdomain.Partition(equipment, eqdomain.CategoryEquipment) {
		if e.Quantity <= 0 {
			continue
		}
		typ := e.Type
		if typ == "" {
			typ = defaultEquipmentType
		}
		specs := map[string]json.RawMessage(e.Metadata.Clone())
		if specs == nil {
			specs = map[string]json.RawMessage{}
		}
		byRoom[e.RoomID] = append(byRoom[e.RoomID], EquipmentPayload{
			EquipmentType:  typ,
			Quantity:       e.Quantity,
			Specifications: specs,
		})
	}

	req := ValidationRequest{
		InstallationID: projectID,
		PostalCode:     postalCode,
		Context:        DefaultContext(),
		Rooms:          make([]RoomPayload, 0, len(rooms)),
	}
	for _, r := range rooms {
		items := byRoom[r.ID]
		if items == nil {
			items = []EquipmentPayload{}
		}
		req.Rooms = append(req.Rooms, RoomPayload{
			RoomID:    r.ID,
			RoomType:  r.EffectiveType(),
			RoomArea:  r.Surface,
			Equipment: items,
		})
	}
	if n, ok := occupants(equipment); ok {
		req.NumberOfPeople = &n
	}
	return req
}

// occupants reads the household size from the hot water option, if any.
func occupants(equipment []eqdomain.Equipment) (int, bool) {
	for _, e := range eqdomain.Partition(equipment, eqdomain.CategoryOption) {
		if e.Type != eqdomain.OptionECS {
			continue
		}
		if n, ok := e.Metadata.GetInt("nombrePersonnes"); ok && n > 0 {
			return n, true
		}
	}
	return 0, false
}
