package domain

// AnalyzeRequest is sent to the plan analysis engine.
type AnalyzeRequest struct {
	Images []string `json:"images"`
}

// DetectedRoom is a room found on a floor plan. Older engine versions put
// the room type under options.roomType.
type DetectedRoom struct {
	Name     string         `json:"name"`
	Surface  float64        `json:"surface"`
	RoomType string         `json:"roomType,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

type AnalyzeResponse struct {
	Rooms []DetectedRoom `json:"rooms"`
}

// Type returns the room type reported for the room, if any.
func (r DetectedRoom) Type() string {
	if r.RoomType != "" {
		return r.RoomType
	}
	if s, ok := r.Options["roomType"].(string); ok {
		return s
	}
	return ""
}
