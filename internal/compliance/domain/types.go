package domain

import (
	"encoding/json"
	"time"
)

// Compliance statuses reported by the engine.
const (
	StatusCompliant    = "compliant"
	StatusNonCompliant = "non_compliant"
	StatusWarning      = "warning"
	StatusMissing      = "missing"
)

// JSONLDContext is sent with every request.
type JSONLDContext map[string]string

func DefaultContext() JSONLDContext {
	return JSONLDContext{
		"@vocab":       "http://example.org/nfc15100#",
		"installation": "Installation",
		"room":         "Room",
		"equipment":    "Equipment",
	}
}

type ValidationRequest struct {
	InstallationID string        `json:"installation_id"`
	PostalCode     string        `json:"postal_code,omitempty"`
	NumberOfPeople *int          `json:"number_of_people,omitempty"`
	Context        JSONLDContext `json:"@context"`
	Rooms          []RoomPayload `json:"rooms"`
}

type RoomPayload struct {
	RoomID    string             `json:"room_id"`
	RoomType  string             `json:"room_type"`
	RoomArea  float64            `json:"room_area"`
	Equipment []EquipmentPayload `json:"equipment"`
}

type EquipmentPayload struct {
	EquipmentType  string                     `json:"equipment_type"`
	Quantity       int                        `json:"quantity"`
	Specifications map[string]json.RawMessage `json:"specifications"`
}

type Violation struct {
	ViolationID   string `json:"violation_id,omitempty"`
	RuleID        string `json:"rule_id,omitempty"`
	Severity      string `json:"severity"`
	ViolationType string `json:"violation_type,omitempty"`
	Message       string `json:"message"`
	SuggestedFix  string `json:"suggested_fix,omitempty"`
}

type GlobalCompliance struct {
	OverallStatus           string      `json:"overall_status"`
	Violations              []Violation `json:"violations"`
	Warnings                []string    `json:"warnings,omitempty"`
	MissingEquipmentSummary []string    `json:"missing_equipment_summary,omitempty"`
}

type RoomResult struct {
	RoomID           string      `json:"room_id"`
	RoomType         string      `json:"room_type,omitempty"`
	ComplianceStatus string      `json:"compliance_status"`
	Violations       []Violation `json:"violations"`
	Warnings         []string    `json:"warnings,omitempty"`
	MissingEquipment []string    `json:"missing_equipment"`
}

// ValidationResponse covers both validate endpoints; Dimensioning is only
// set by the global one.
type ValidationResponse struct {
	InstallationID   string           `json:"installation_id"`
	GlobalCompliance GlobalCompliance `json:"global_compliance"`
	RoomResults      []RoomResult     `json:"room_results"`
	Timestamp        string           `json:"timestamp,omitempty"`
	Dimensioning     *Dimensioning    `json:"dimensioning,omitempty"`
}

type Dimensioning struct {
	CircuitBreakers    []CircuitBreaker  `json:"circuit_breakers"`
	SurgeProtectors    []SurgeProtector  `json:"surge_protectors,omitempty"`
	ElectricalPanels   []ElectricalPanel `json:"electrical_panels"`
	Cables             []Cable           `json:"cables"`
	TotalEstimatedCost *float64          `json:"total_estimated_cost,omitempty"`
	InstallationNotes  []string          `json:"installation_notes"`
}

type CircuitBreaker struct {
	Rating      int    `json:"rating"`
	Type        string `json:"type,omitempty"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
}

type SurgeProtector struct {
	Type        string  `json:"type"`
	Rating      *string `json:"rating,omitempty"`
	Quantity    int     `json:"quantity"`
	Description string  `json:"description"`
}

type ElectricalPanel struct {
	Type        string `json:"type"`
	Modules     int    `json:"modules"`
	Quantity    int    `json:"quantity,omitempty"`
	Description string `json:"description,omitempty"`
}

type Cable struct {
	Type           string  `json:"type"`
	Section        float64 `json:"section"`
	LengthEstimate float64 `json:"length_estimate"`
	Description    string  `json:"description,omitempty"`
}

// EngineHealth is the engine's /health payload.
type EngineHealth struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
	Service   string `json:"service,omitempty"`
}

// Verdict is a computed compliance result and the signature of the state
// that produced it. It is a cache entry, never the source of truth.
type Verdict struct {
	ProjectID  string             `json:"project_id"`
	Signature  string             `json:"signature"`
	Response   ValidationResponse `json:"response"`
	ComputedAt time.Time          `json:"computed_at"`
}

// Compliant reports whether the engine judged the whole installation compliant.
func (v *Verdict) Compliant() bool {
	return v.Response.GlobalCompliance.OverallStatus == StatusCompliant
}
