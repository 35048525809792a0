package http

import (
	"github.com/abplan/abplan-backend/internal/equipment/domain"
	"github.com/abplan/abplan-backend/internal/equipment/service"
)

// Handler bundles the dependencies for project equipment endpoints.
type Handler struct {
	svc *service.EquipmentService
}

func New(svc *service.EquipmentService) *Handler {
	return &Handler{svc: svc}
}

type replaceReq struct {
	ProjectID  string             `json:"projectId"`
	Equipments []domain.Equipment `json:"equipments"`
}

type equipmentTypeDTO struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Colored     bool   `json:"colored"`
	KitchenOnly bool   `json:"kitchenOnly"`
}
