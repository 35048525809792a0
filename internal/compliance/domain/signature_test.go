package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eqdomain "github.com/abplan/abplan-backend/internal/equipment/domain"
	roomdomain "github.com/abplan/abplan-backend/internal/rooms/domain"
)

func fixture() ([]roomdomain.Room, []eqdomain.Equipment) {
	rooms := []roomdomain.Room{
		{ID: "r1", Name: "Cuisine", Surface: 12, RoomType: roomdomain.RoomKitchen},
		{ID: "r2", Name: "Chambre", Surface: 10, RoomType: roomdomain.RoomBedroom},
	}
	equipment := []eqdomain.Equipment{
		{ID: "e1", Name: "Prise plaque", Quantity: 1, RoomID: "r1", Category: eqdomain.CategoryEquipment, Type: eqdomain.TypeOvenSocket},
		{ID: "e2", Name: "Prise simple", Quantity: 3, RoomID: "r2", Category: eqdomain.CategoryEquipment,
			Metadata: eqdomain.Metadata{"color": eqdomain.RawJSON("blanc")}},
		{ID: "o1", Name: "Chauffe-eau Thermodynamique", Quantity: 1, Category: eqdomain.CategoryOption, Type: eqdomain.OptionECS,
			Metadata: eqdomain.Metadata{"ecsType": eqdomain.RawJSON("Thermodynamique"), "nombrePersonnes": eqdomain.RawJSON(4)}},
	}
	return rooms, equipment
}

func TestSignature_OrderAndIdentityIndependent(t *testing.T) {
	rooms, equipment := fixture()
	base := Signature(rooms, equipment)

	reversedRooms := []roomdomain.Room{rooms[1], rooms[0]}
	reversedEquipment := []eqdomain.Equipment{equipment[2], equipment[0], equipment[1]}
	assert.Equal(t, base, Signature(reversedRooms, reversedEquipment))

	renamed := append([]eqdomain.Equipment(nil), equipment...)
	renamed[0].ID = "persisted-later"
	assert.Equal(t, base, Signature(rooms, renamed))

	relabelled := append([]roomdomain.Room(nil), rooms...)
	relabelled[0].Name = "Kitchen"
	assert.Equal(t, base, Signature(relabelled, equipment), "room names do not affect the verdict")
}

func TestSignature_ChangesWithVerdictInputs(t *testing.T) {
	rooms, equipment := fixture()
	base := Signature(rooms, equipment)

	bigger := append([]roomdomain.Room(nil), rooms...)
	bigger[1].Surface = 11
	assert.NotEqual(t, base, Signature(bigger, equipment))

	retyped := append([]roomdomain.Room(nil), rooms...)
	retyped[1].RoomType = roomdomain.RoomOffice
	assert.NotEqual(t, base, Signature(retyped, equipment))

	more := append([]eqdomain.Equipment(nil), equipment...)
	more[1].Quantity = 4
	assert.NotEqual(t, base, Signature(rooms, more))

	recolored := append([]eqdomain.Equipment(nil), equipment...)
	recolored[1].Metadata = eqdomain.Metadata{"color": eqdomain.RawJSON("noir")}
	assert.NotEqual(t, base, Signature(rooms, recolored))

	assert.NotEqual(t, base, Signature(rooms[:1], equipment))
}

func TestBuildRequest(t *testing.T) {
	rooms, equipment := fixture()
	rooms = append(rooms, roomdomain.Room{ID: "r3", Name: "Cellier", Surface: 3})

	req := BuildRequest("p1", "75001", rooms, equipment)

	assert.Equal(t, "p1", req.InstallationID)
	assert.Equal(t, "75001", req.PostalCode)
	assert.Equal(t, "http://example.org/nfc15100#", req.Context["@vocab"])
	require.NotNil(t, req.NumberOfPeople)
	assert.Equal(t, 4, *req.NumberOfPeople)

	require.Len(t, req.Rooms, 3)
	assert.Equal(t, roomdomain.RoomKitchen, req.Rooms[0].RoomType)
	require.Len(t, req.Rooms[0].Equipment, 1)
	assert.Equal(t, eqdomain.TypeOvenSocket, req.Rooms[0].Equipment[0].EquipmentType)
	assert.NotNil(t, req.Rooms[0].Equipment[0].Specifications)

	require.Len(t, req.Rooms[1].Equipment, 1)
	assert.Equal(t, eqdomain.TypeSimpleSocket, req.Rooms[1].Equipment[0].EquipmentType, "untyped records default to a simple socket")
	assert.JSONEq(t, `"blanc"`, string(req.Rooms[1].Equipment[0].Specifications["color"]))

	assert.Equal(t, roomdomain.RoomOther, req.Rooms[2].RoomType)
	assert.Empty(t, req.Rooms[2].Equipment)
	assert.NotNil(t, req.Rooms[2].Equipment)
}
