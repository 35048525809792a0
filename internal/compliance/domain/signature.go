package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	eqdomain "github.com/abplan/abplan-backend/internal/equipment/domain"
	roomdomain "github.com/abplan/abplan-backend/internal/rooms/domain"
)

type roomFingerprint struct {
	ID       string  `json:"id"`
	Surface  float64 `json:"surface"`
	RoomType string  `json:"roomType"`
}

// equipmentFingerprint is an equipment record without its identifier.
// Identifiers are assigned by persistence and never reach the engine.
type equipmentFingerprint struct {
	Name     string            `json:"name"`
	Quantity int               `json:"quantity"`
	RoomID   string            `json:"roomId"`
	Category eqdomain.Category `json:"category"`
	Type     string            `json:"type"`
	Metadata eqdomain.Metadata `json:"metadata"`
}

// Signature fingerprints the part of a project's state that can change a
// compliance verdict. Equal signatures mean compliance-equivalent states,
// independent of room and record order.
func Signature(rooms []roomdomain.Room, equipment []eqdomain.Equipment) string {
	rs := make([]roomFingerprint, 0, len(rooms))
	for _, r := range rooms {
		rs = append(rs, roomFingerprint{ID: r.ID, Surface: r.Surface, RoomType: r.EffectiveType()})
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].ID < rs[j].ID })

	es := make([][]byte, 0, len(equipment))
	for _, e := range equipment {
		// encoding/json sorts map keys and compacts raw values.
		b, _ := json.Marshal(equipmentFingerprint{
			Name:     e.Name,
			Quantity: e.Quantity,
			RoomID:   e.RoomID,
			Category: e.Category,
			Type:     e.Type,
			Metadata: e.Metadata,
		})
		es = append(es, b)
	}
	sort.Slice(es, func(i, j int) bool { return bytes.Compare(es[i], es[j]) < 0 })

	h := sha256.New()
	rb, _ := json.Marshal(rs)
	h.Write(rb)
	h.Write([]byte{'\n'})
	for _, b := range es {
		h.Write(b)
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
