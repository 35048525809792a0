package service

import (
	"github.com/abplan/abplan-backend/internal/equipment/domain"
	"go.uber.org/zap"
)

// Merger runs the pure merge functions and logs what they drop.
type Merger struct {
	log *zap.Logger
}

func NewMerger(log *zap.Logger) *Merger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Merger{log: log}
}

func (m *Merger) Dedupe(list []domain.Equipment) []domain.Equipment {
	m.reportRejected("dedupe", list)
	out, dups := domain.DedupeWithStats(list)
	if dups > 0 {
		m.log.Debug("equipment deduplicated",
			zap.Int("original", len(list)),
			zap.Int("duplicates", dups),
			zap.Int("final", len(out)))
	}
	return out
}

func (m *Merger) MergeRoomEquipments(newRoomEquipments, existingAll []domain.Equipment) []domain.Equipment {
	asRoom := make([]domain.Equipment, len(newRoomEquipments))
	for i, e := range newRoomEquipments {
		e.Category = domain.CategoryEquipment
		asRoom[i] = e
	}
	m.reportRejected("room equipments", asRoom)
	m.reportRejected("existing equipments", domain.Partition(existingAll, domain.CategoryOption))
	return domain.MergeRoomEquipments(newRoomEquipments, existingAll)
}

func (m *Merger) MergeOptionEquipments(opts domain.ProjectOptions, existingAll []domain.Equipment) []domain.Equipment {
	m.reportRejected("existing equipments", domain.Partition(existingAll, domain.CategoryEquipment))
	return domain.MergeOptionEquipments(opts, existingAll)
}

func (m *Merger) reportRejected(source string, list []domain.Equipment) {
	_, rejected := domain.Sanitize(list)
	for _, r := range rejected {
		m.log.Warn("dropping malformed equipment",
			zap.String("source", source),
			zap.Int("index", r.Index),
			zap.String("name", r.Name),
			zap.String("reason", r.Reason))
	}
}
