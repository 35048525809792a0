package domain

import (
	"regexp"
	"strconv"
	"strings"

	eqdomain "github.com/abplan/abplan-backend/internal/equipment/domain"
)

var missingPattern = regexp.MustCompile(`^(\d+)\s+(.+?)(?:\(s\))?$`)

// ParseMissing splits a missing_equipment entry such as "2 sockets(s)" into
// a quantity and a type token. Entries without a leading count mean one.
func ParseMissing(entry string) (int, string) {
	entry = strings.TrimSpace(entry)
	m := missingPattern.FindStringSubmatch(entry)
	if m == nil {
		return 1, entry
	}
	qty, err := strconv.Atoi(m[1])
	if err != nil || qty <= 0 {
		qty = 1
	}
	return qty, strings.TrimSpace(m[2])
}

// Resolution is the catalogue entry a type token resolves to.
type Resolution struct {
	Type string
	Name string
}

var tokenAliases = map[string]string{
	"socket":              eqdomain.TypeSimpleSocket,
	"sockets":             eqdomain.TypeSimpleSocket,
	"simple_socket":       eqdomain.TypeSimpleSocket,
	"prise_simple":        eqdomain.TypeSimpleSocket,
	"prise":               eqdomain.TypeSimpleSocket,
	"outlet":              eqdomain.TypeSimpleSocket,
	"32a socket":          eqdomain.TypeOvenSocket,
	"32a sockets":         eqdomain.TypeOvenSocket,
	"network_socket":      eqdomain.TypeNetworkSocket,
	"network socket":      eqdomain.TypeNetworkSocket,
	"network sockets":     eqdomain.TypeNetworkSocket,
	"rj45":                eqdomain.TypeNetworkSocket,
	"rj45socket":          eqdomain.TypeNetworkSocket,
	"prise_rj45":          eqdomain.TypeNetworkSocket,
	"prise_reseau":        eqdomain.TypeNetworkSocket,
	"ethernet":            eqdomain.TypeNetworkSocket,
	"lighting_point":      eqdomain.TypeLightingPoint,
	"lighting point":      eqdomain.TypeLightingPoint,
	"lighting points":     eqdomain.TypeLightingPoint,
	"point_lumineux":      eqdomain.TypeLightingPoint,
	"light":               eqdomain.TypeLightingPoint,
	"eclairage":           eqdomain.TypeLightingPoint,
	"luminaire":           eqdomain.TypeLightingPoint,
	"switch":              eqdomain.TypeSimpleSwitch,
	"switches":            eqdomain.TypeSimpleSwitch,
	"simple_switch":       eqdomain.TypeSimpleSwitch,
	"interrupteur":        eqdomain.TypeSimpleSwitch,
	"interrupteur_simple": eqdomain.TypeSimpleSwitch,
	"commande":            eqdomain.TypeSimpleSwitch,
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9_ ]+`)

// ResolveToken maps an engine type token to a catalogue type. Catalogue
// codes resolve to themselves; anything else must be a known alias.
func ResolveToken(token string) (Resolution, bool) {
	raw := strings.ToLower(strings.TrimSpace(token))
	normalized := strings.Join(strings.Fields(nonAlnum.ReplaceAllString(raw, " ")), " ")
	compacted := strings.ReplaceAll(normalized, " ", "")

	for _, key := range []string{raw, normalized, compacted} {
		if key == "" {
			continue
		}
		code, ok := tokenAliases[key]
		if !ok {
			code, ok = catalogCodes[key]
		}
		if !ok {
			continue
		}
		if t, ok := eqdomain.LookupType(code); ok {
			return Resolution{Type: t.Code, Name: t.Name}, true
		}
	}
	return Resolution{}, false
}

var catalogCodes = func() map[string]string {
	m := map[string]string{}
	for _, t := range eqdomain.Catalog() {
		m[strings.ToLower(t.Code)] = t.Code
	}
	return m
}()

// AppliedSuggestion is one missing_equipment entry turned into a record.
type AppliedSuggestion struct {
	RoomID   string `json:"roomId"`
	Entry    string `json:"entry"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// UnresolvedSuggestion is an entry with no automatic fix available.
type UnresolvedSuggestion struct {
	RoomID string `json:"roomId"`
	Entry  string `json:"entry"`
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

const (
	ReasonUnknownType = "unknown equipment type"
	ReasonUnknownRoom = "room no longer exists"
)

type SuggestionReport struct {
	Applied    []AppliedSuggestion    `json:"applied"`
	Unresolved []UnresolvedSuggestion `json:"unresolved"`
}

// NoOp reports whether nothing could be applied.
func (r SuggestionReport) NoOp() bool { return len(r.Applied) == 0 }

// HasSuggestions reports whether any non-compliant room lists missing
// equipment.
func HasSuggestions(resp ValidationResponse) bool {
	for _, rr := range resp.RoomResults {
		if rr.ComplianceStatus != StatusCompliant && len(rr.MissingEquipment) > 0 {
			return true
		}
	}
	return false
}

// ApplySuggestions appends one equipment record per resolvable
// missing_equipment entry to its room and merges the result with current,
// which is the project's whole equipment collection. Only rooms listed in
// roomIDs receive equipment; entries for any other room are reported as
// unresolved, since the verdict may predate a room deletion. When nothing
// resolves, current is returned unchanged.
func ApplySuggestions(resp ValidationResponse, current []eqdomain.Equipment, roomIDs []string) ([]eqdomain.Equipment, SuggestionReport) {
	report := SuggestionReport{Applied: []AppliedSuggestion{}, Unresolved: []UnresolvedSuggestion{}}
	var added []eqdomain.Equipment

	known := make(map[string]bool, len(roomIDs))
	for _, id := range roomIDs {
		known[id] = true
	}

	for _, rr := range resp.RoomResults {
		if rr.ComplianceStatus == StatusCompliant || rr.RoomID == "" {
			continue
		}
		for _, entry := range rr.MissingEquipment {
			qty, token := ParseMissing(entry)
			if !known[rr.RoomID] {
				report.Unresolved = append(report.Unresolved, UnresolvedSuggestion{RoomID: rr.RoomID, Entry: entry, Token: token, Reason: ReasonUnknownRoom})
				continue
			}
			res, ok := ResolveToken(token)
			if !ok {
				report.Unresolved = append(report.Unresolved, UnresolvedSuggestion{RoomID: rr.RoomID, Entry: entry, Token: token, Reason: ReasonUnknownType})
				continue
			}
			added = append(added, eqdomain.Equipment{
				Name:     res.Name,
				Quantity: qty,
				RoomID:   rr.RoomID,
				Category: eqdomain.CategoryEquipment,
				Type:     res.Type,
			})
			report.Applied = append(report.Applied, AppliedSuggestion{RoomID: rr.RoomID, Entry: entry, Type: res.Type, Quantity: qty})
		}
	}

	if len(added) == 0 {
		return current, report
	}
	rooms := eqdomain.Partition(current, eqdomain.CategoryEquipment)
	next := append(append(make([]eqdomain.Equipment, 0, len(rooms)+len(added)), rooms...), added...)
	return eqdomain.MergeRoomEquipments(next, current), report
}
