package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRooms() []Room {
	return []Room{
		{ID: "r1", Name: "Cuisine", Surface: 12, RoomType: RoomKitchen},
		{ID: "r2", Name: "Chambre", Surface: 10.5, RoomType: RoomBedroom},
	}
}

func TestTotalSurface(t *testing.T) {
	assert.Equal(t, 0.0, TotalSurface(nil))
	assert.Equal(t, 22.5, TotalSurface(sampleRooms()))
}

func TestSurfaceInvariant_AcrossMutations(t *testing.T) {
	rooms := sampleRooms()

	added, err := Add(rooms, Room{ID: "r3", Name: "WC", Surface: 2, RoomType: RoomWC})
	require.NoError(t, err)
	assert.Equal(t, 24.5, TotalSurface(added))
	assert.Len(t, rooms, 2, "input must not be mutated")

	edited, err := Update(added, Room{ID: "r2", Name: "Chambre", Surface: 14.5, RoomType: RoomBedroom})
	require.NoError(t, err)
	assert.Equal(t, 28.5, TotalSurface(edited))
	assert.Equal(t, 10.5, added[1].Surface)

	removed, err := Remove(edited, "r1")
	require.NoError(t, err)
	assert.Equal(t, 16.5, TotalSurface(removed))

	assert.Equal(t, 0.0, TotalSurface(Purge()))
}

func TestMutations_Errors(t *testing.T) {
	rooms := sampleRooms()

	_, err := Add(rooms, Room{ID: "r1", Name: "Dup", Surface: 1})
	assert.ErrorIs(t, err, ErrDuplicateRoomID)

	_, err = Update(rooms, Room{ID: "missing", Name: "x", Surface: 1})
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = Remove(rooms, "missing")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Room{ID: "a", Name: "Salon", Surface: 20}.Validate())
	assert.ErrorIs(t, Room{ID: "a", Name: " ", Surface: 20}.Validate(), ErrInvalidRoom)
	assert.ErrorIs(t, Room{ID: "a", Name: "Salon", Surface: 0}.Validate(), ErrInvalidRoom)
	assert.ErrorIs(t, Room{ID: "", Name: "Salon", Surface: 3}.Validate(), ErrInvalidRoom)

	err := ValidateAll([]Room{{ID: "a", Name: "x", Surface: 1}, {ID: "a", Name: "y", Surface: 1}})
	assert.ErrorIs(t, err, ErrDuplicateRoomID)
}

func TestEffectiveType(t *testing.T) {
	assert.Equal(t, RoomKitchen, Room{RoomType: RoomKitchen}.EffectiveType())
	assert.Equal(t, RoomKitchen, Room{RoomType: "Cuisine"}.EffectiveType())
	assert.Equal(t, RoomOther, Room{}.EffectiveType())
	assert.Equal(t, RoomOther, Room{RoomType: "Ballroom"}.EffectiveType())

	legacy := Room{Options: map[string]json.RawMessage{"roomType": json.RawMessage(`"Salle d'eau"`)}}
	assert.Equal(t, RoomWetRoom, legacy.EffectiveType())

	assert.True(t, IsKitchen(RoomLivingRoomWithIntegratedKitchen))
	assert.False(t, IsKitchen(RoomBedroom))
}
