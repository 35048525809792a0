package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsToEquipments(t *testing.T) {
	pieces := 2
	opts := ProjectOptions{
		Type: SystemWiser,
		WiserConfig: &WiserConfig{
			Controleur: "TXA663AN",
			Modules:    map[string]int{"volets": 3, "variateur": 0, "chauffage": 1},
			Gateway:    true,
		},
		AccessControl: &AccessControl{
			Interphonie:   true,
			PortailEntree: PortailEntree{Motorise: true, Type: "coulissant"},
			IRVE:          true,
		},
		ECS: &ECS{Type: "electrique", NombrePersonnes: 4, NombrePiecesEau: &pieces},
	}

	out := OptionsToEquipments(opts)
	names := make([]string, 0, len(out))
	for _, e := range out {
		assert.Equal(t, CategoryOption, e.Category)
		assert.Empty(t, e.RoomID)
		assert.NoError(t, e.Validate())
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{
		"Système Wiser",
		"Module chauffage",
		"Module volets",
		"Gateway Wiser",
		"Interphonie",
		"Portail entrée coulissant",
		"IRVE (Borne véhicule électrique)",
		"Chauffe-eau electrique",
	}, names)
	assert.Equal(t, 3, out[2].Quantity)
}

func TestOptionsToEquipments_NoneSelected(t *testing.T) {
	assert.Empty(t, OptionsToEquipments(ProjectOptions{Type: SystemNone}))
	assert.Empty(t, OptionsToEquipments(ProjectOptions{ECS: &ECS{NombrePersonnes: 1}}))
}

func TestOptionsRoundTrip(t *testing.T) {
	pieces := 1
	opts := ProjectOptions{
		Type: SystemWiser,
		WiserConfig: &WiserConfig{
			Controleur: "TXA663A",
			Modules:    map[string]int{"commande": 2},
			Zigbee:     true,
		},
		AccessControl: &AccessControl{Alarme: true, PortailGarage: true, EclairageFacade: true},
		ECS:           &ECS{Type: "thermodynamique-pac", NombrePersonnes: 3, NombrePiecesEau: &pieces},
	}

	back := OptionsFromEquipments(OptionsToEquipments(opts))
	assert.Equal(t, SystemWiser, back.Type)
	require.NotNil(t, back.WiserConfig)
	assert.Equal(t, 2, back.WiserConfig.Modules["commande"])
	assert.True(t, back.WiserConfig.Zigbee)
	assert.Equal(t, *opts.AccessControl, *back.AccessControl)
	assert.Equal(t, "thermodynamique-pac", back.ECS.Type)
	assert.Equal(t, 3, back.ECS.NombrePersonnes)
	require.NotNil(t, back.ECS.NombrePiecesEau)
	assert.Equal(t, 1, *back.ECS.NombrePiecesEau)
}

func TestOptionsFromEquipments_Defaults(t *testing.T) {
	opts := OptionsFromEquipments([]Equipment{roomItem("e1", "r1", TypeSimpleSocket, "Prise simple", 1)})
	assert.Equal(t, SystemNone, opts.Type)
	assert.Nil(t, opts.WiserConfig)
	assert.Equal(t, AccessControl{}, *opts.AccessControl)
	assert.Equal(t, 1, opts.ECS.NombrePersonnes)
}
