package domain

// NF C 15-100 room type codes understood by the compliance engine.
const (
	RoomKitchen                         = "Kitchen"
	RoomLivingRoom                      = "LivingRoom"
	RoomLivingRoomWithIntegratedKitchen = "LivingRoomWithIntegratedKitchen"
	RoomCirculationArea                 = "CirculationArea"
	RoomWetRoom                         = "WetRoom"
	RoomWC                              = "WC"
	RoomBathroomWithWC                  = "BathroomWithWC"
	RoomBedroom                         = "Bedroom"
	RoomOffice                          = "Office"
	RoomOther                           = "Other"
	RoomExteriorSpace                   = "ExteriorSpace"
)

var roomTypeCodes = map[string]struct{}{
	RoomKitchen:                         {},
	RoomLivingRoom:                      {},
	RoomLivingRoomWithIntegratedKitchen: {},
	RoomCirculationArea:                 {},
	RoomWetRoom:                         {},
	RoomWC:                              {},
	RoomBathroomWithWC:                  {},
	RoomBedroom:                         {},
	RoomOffice:                          {},
	RoomOther:                           {},
	RoomExteriorSpace:                   {},
}

// French UI labels still sent by the wizard.
var roomTypeLabels = map[string]string{
	"Cuisine":                           RoomKitchen,
	"Salon/Séjour":                      RoomLivingRoom,
	"Salon/Séjour avec cuisine intégré": RoomLivingRoomWithIntegratedKitchen,
	"Circulation et locaux ≥ 4 m²":      RoomCirculationArea,
	"Salle d'eau":                       RoomWetRoom,
	"Salle d'eau avec WC":               RoomBathroomWithWC,
	"Chambre/Bureau":                    RoomBedroom,
	"Autres (garage, dégagement < 4 m2, placard…)": RoomOther,
	"Extérieur (terrasse, patio…)":                 RoomExteriorSpace,
	"LivingRoomWithKitchen":                        RoomLivingRoomWithIntegratedKitchen,
}

// NormalizeRoomType maps labels and aliases to a room type code. Unknown or
// empty values become Other.
func NormalizeRoomType(t string) string {
	if _, ok := roomTypeCodes[t]; ok {
		return t
	}
	if code, ok := roomTypeLabels[t]; ok {
		return code
	}
	return RoomOther
}

// IsKitchen reports whether kitchen-only equipment may be placed in the room.
func IsKitchen(roomType string) bool {
	t := NormalizeRoomType(roomType)
	return t == RoomKitchen || t == RoomLivingRoomWithIntegratedKitchen
}
