package domain

import (
	"strings"
	"time"
)

// Project is an electrical installation being planned. Its ID is the key
// used by room configurations, equipment collections and verdicts.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PostalCode string    `json:"postalCode,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (p *Project) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.PostalCode = strings.TrimSpace(p.PostalCode)
}
