package domain

import (
	"fmt"
	"sort"
)

// Option record types.
const (
	OptionAutomationSystem = "automation_system"
	OptionWiserModule      = "wiser_module"
	OptionWiserGateway     = "wiser_gateway"
	OptionWiserZigbee      = "wiser_zigbee"
	OptionAccessControl    = "access_control"
	OptionECS              = "ecs"
)

const (
	SystemWiser = "Wiser"
	SystemOther = "Autre"
	SystemNone  = "Aucun"

	defaultControleur = "TXA663A"
)

// ProjectOptions is the structured project-wide options object edited by the
// options step.
type ProjectOptions struct {
	Type          string         `json:"type"`
	WiserConfig   *WiserConfig   `json:"wiserConfig,omitempty"`
	AccessControl *AccessControl `json:"accessControl,omitempty"`
	ECS           *ECS           `json:"ecs,omitempty"`
}

type WiserConfig struct {
	Controleur string         `json:"controleur"`
	Modules    map[string]int `json:"modules"`
	Gateway    bool           `json:"gateway,omitempty"`
	Zigbee     bool           `json:"zigbee,omitempty"`
}

type AccessControl struct {
	Interphonie     bool          `json:"interphonie"`
	Alarme          bool          `json:"alarme"`
	PortailEntree   PortailEntree `json:"portailEntree"`
	PortailGarage   bool          `json:"portailGarage"`
	IRVE            bool          `json:"irve"`
	EclairageFacade bool          `json:"eclairageFacade"`
}

type PortailEntree struct {
	Motorise bool   `json:"motorise"`
	Type     string `json:"type,omitempty"`
}

// ECS is the domestic hot water setup.
type ECS struct {
	Type            string `json:"type"`
	NombrePersonnes int    `json:"nombrePersonnes"`
	NombrePiecesEau *int   `json:"nombrePiecesEau,omitempty"`
}

type accessToggle struct {
	key  string
	name string
	on   func(*AccessControl) bool
	set  func(*AccessControl)
}

var accessToggles = []accessToggle{
	{"interphonie", "Interphonie", func(a *AccessControl) bool { return a.Interphonie }, func(a *AccessControl) { a.Interphonie = true }},
	{"alarme", "Système d'alarme", func(a *AccessControl) bool { return a.Alarme }, func(a *AccessControl) { a.Alarme = true }},
	{"portailGarage", "Portail garage motorisé", func(a *AccessControl) bool { return a.PortailGarage }, func(a *AccessControl) { a.PortailGarage = true }},
	{"irve", "IRVE (Borne véhicule électrique)", func(a *AccessControl) bool { return a.IRVE }, func(a *AccessControl) { a.IRVE = true }},
	{"eclairageFacade", "Éclairage façade", func(a *AccessControl) bool { return a.EclairageFacade }, func(a *AccessControl) { a.EclairageFacade = true }},
}

func option(name, typ string, qty int, md Metadata) Equipment {
	return Equipment{Name: name, Quantity: qty, Category: CategoryOption, Type: typ, Metadata: md}
}

// OptionsToEquipments derives the option partition from opts. Each enabled
// toggle maps to exactly one record.
func OptionsToEquipments(opts ProjectOptions) []Equipment {
	var out []Equipment

	if opts.Type != "" && opts.Type != SystemNone {
		md := Metadata{"systemType": RawJSON(opts.Type)}
		if opts.WiserConfig != nil {
			md["wiserConfig"] = RawJSON(opts.WiserConfig)
		}
		out = append(out, option("Système "+opts.Type, OptionAutomationSystem, 1, md))
	}

	if w := opts.WiserConfig; w != nil {
		modules := make([]string, 0, len(w.Modules))
		for m := range w.Modules {
			modules = append(modules, m)
		}
		sort.Strings(modules)
		for _, m := range modules {
			if qty := w.Modules[m]; qty > 0 {
				out = append(out, option("Module "+m, OptionWiserModule, qty, Metadata{
					"moduleType": RawJSON(m),
					"controleur": RawJSON(w.Controleur),
				}))
			}
		}
		if w.Gateway {
			out = append(out, option("Gateway Wiser", OptionWiserGateway, 1, Metadata{"controleur": RawJSON(w.Controleur)}))
		}
		if w.Zigbee {
			out = append(out, option("Module Zigbee", OptionWiserZigbee, 1, Metadata{"controleur": RawJSON(w.Controleur)}))
		}
	}

	if a := opts.AccessControl; a != nil {
		for _, t := range accessToggles[:2] {
			if t.on(a) {
				out = append(out, option(t.name, OptionAccessControl, 1, Metadata{"accessType": RawJSON(t.key)}))
			}
		}
		if a.PortailEntree.Motorise {
			label := a.PortailEntree.Type
			if label == "" {
				label = "motorisé"
			}
			md := Metadata{"accessType": RawJSON("portailEntree")}
			if a.PortailEntree.Type != "" {
				md["portailType"] = RawJSON(a.PortailEntree.Type)
			}
			out = append(out, option(fmt.Sprintf("Portail entrée %s", label), OptionAccessControl, 1, md))
		}
		for _, t := range accessToggles[2:] {
			if t.on(a) {
				out = append(out, option(t.name, OptionAccessControl, 1, Metadata{"accessType": RawJSON(t.key)}))
			}
		}
	}

	if e := opts.ECS; e != nil && e.Type != "" {
		md := Metadata{
			"ecsType":         RawJSON(e.Type),
			"nombrePersonnes": RawJSON(e.NombrePersonnes),
		}
		if e.NombrePiecesEau != nil {
			md["nombrePiecesEau"] = RawJSON(*e.NombrePiecesEau)
		}
		out = append(out, option("Chauffe-eau "+e.Type, OptionECS, 1, md))
	}

	return out
}

// OptionsFromEquipments rebuilds the options object from the option
// partition of list.
func OptionsFromEquipments(list []Equipment) ProjectOptions {
	opts := ProjectOptions{
		Type:          SystemNone,
		AccessControl: &AccessControl{},
		ECS:           &ECS{NombrePersonnes: 1},
	}
	wiser := func() *WiserConfig {
		if opts.WiserConfig == nil {
			opts.WiserConfig = &WiserConfig{Controleur: defaultControleur, Modules: map[string]int{}}
		}
		if opts.WiserConfig.Modules == nil {
			opts.WiserConfig.Modules = map[string]int{}
		}
		return opts.WiserConfig
	}

	for _, e := range Partition(list, CategoryOption) {
		switch e.Type {
		case OptionAutomationSystem:
			if s, ok := e.Metadata.GetString("systemType"); ok && s != "" {
				opts.Type = s
			}
			var cfg WiserConfig
			if e.Metadata.Decode("wiserConfig", &cfg) {
				opts.WiserConfig = &cfg
			}
		case OptionWiserModule:
			w := wiser()
			if m, ok := e.Metadata.GetString("moduleType"); ok && m != "" {
				w.Modules[m] = e.Quantity
			}
		case OptionWiserGateway:
			wiser().Gateway = true
		case OptionWiserZigbee:
			wiser().Zigbee = true
		case OptionAccessControl:
			key, _ := e.Metadata.GetString("accessType")
			if key == "portailEntree" {
				t, _ := e.Metadata.GetString("portailType")
				opts.AccessControl.PortailEntree = PortailEntree{Motorise: true, Type: t}
				continue
			}
			for _, t := range accessToggles {
				if t.key == key {
					t.set(opts.AccessControl)
				}
			}
		case OptionECS:
			opts.ECS.Type, _ = e.Metadata.GetString("ecsType")
			if n, ok := e.Metadata.GetInt("nombrePersonnes"); ok && n > 0 {
				opts.ECS.NombrePersonnes = n
			}
			if n, ok := e.Metadata.GetInt("nombrePiecesEau"); ok {
				opts.ECS.NombrePiecesEau = &n
			}
		}
	}
	return opts
}
