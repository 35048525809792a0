package domain

// EquipmentType is an entry of the equipment catalogue offered per room.
type EquipmentType struct {
	Code        string
	Name        string
	Colored     bool
	KitchenOnly bool
}

const (
	TypeSimpleSocket       = "SimpleSocket"
	TypeDedicated20ASocket = "Dedicated20ASocket"
	TypeDoubleSocket       = "DoubleSocket"
	TypeNetworkSocket      = "NetworkSocket"
	TypeTVSocket           = "TVSocket"
	TypeOvenSocket         = "OvenSocket"
	TypeExtractorSocket    = "ExtractorSocket"
	TypeLightingPoint      = "LightingPoint"
	TypeSimpleSwitch       = "SimpleSwitch"
	TypeDoubleSwitch       = "DoubleSwitch"
	TypeDimmerSwitch       = "DimmerSwitch"
	TypeInertiaRadiator    = "InertiaRadiator"
	TypeConvector          = "Convector"
	TypeAirConditioning    = "AirConditioning"
	TypeFloorHeating       = "FloorHeating"
	TypeDuctedHeatPump     = "DuctedHeatPump"
	TypeWaterHeater        = "WaterHeater"
	TypeSimpleFlowVMC      = "SimpleFlowVMC"
	TypeDoubleFlowVMC      = "DoubleFlowVMC"
)

var catalog = []EquipmentType{
	{Code: TypeSimpleSocket, Name: "Prise simple", Colored: true},
	{Code: TypeDedicated20ASocket, Name: "Prise simple sur circuit dédié 20A", Colored: true},
	{Code: TypeDoubleSocket, Name: "Prise double", Colored: true},
	{Code: TypeNetworkSocket, Name: "Prise RJ45", Colored: true},
	{Code: TypeTVSocket, Name: "Prise TV", Colored: true},
	{Code: TypeOvenSocket, Name: "Prise plaque", Colored: true, KitchenOnly: true},
	{Code: TypeExtractorSocket, Name: "Prise hotte", Colored: true, KitchenOnly: true},
	{Code: TypeLightingPoint, Name: "Point lumineux", Colored: true},
	{Code: TypeSimpleSwitch, Name: "Interrupteur simple", Colored: true},
	{Code: TypeDoubleSwitch, Name: "Interrupteur double", Colored: true},
	{Code: TypeDimmerSwitch, Name: "Va-et-vient", Colored: true},
	{Code: TypeInertiaRadiator, Name: "Radiateur inertie"},
	{Code: TypeConvector, Name: "Convecteur"},
	{Code: TypeAirConditioning, Name: "Climatisation"},
	{Code: TypeFloorHeating, Name: "Plancher chauffant"},
	{Code: TypeDuctedHeatPump, Name: "Pompe à chaleur gainée"},
	{Code: TypeWaterHeater, Name: "Chauffe-eau"},
	{Code: TypeSimpleFlowVMC, Name: "Simple flux"},
	{Code: TypeDoubleFlowVMC, Name: "Double flux"},
}

var catalogByCode = func() map[string]EquipmentType {
	m := make(map[string]EquipmentType, len(catalog))
	for _, t := range catalog {
		m[t.Code] = t
	}
	return m
}()

// Catalog returns the equipment types in display order.
func Catalog() []EquipmentType {
	out := make([]EquipmentType, len(catalog))
	copy(out, catalog)
	return out
}

func LookupType(code string) (EquipmentType, bool) {
	t, ok := catalogByCode[code]
	return t, ok
}

// AllowedInRoom reports whether an equipment type may be placed in a room of
// the given kind. Kitchen-only types need a kitchen.
func AllowedInRoom(code string, kitchen bool) bool {
	t, ok := catalogByCode[code]
	if !ok || !t.KitchenOnly {
		return true
	}
	return kitchen
}
