package domain

import "errors"

var (
	ErrSessionNotLoaded    = errors.New("session not loaded")
	ErrEquipmentNotAllowed = errors.New("equipment type not allowed in this room")
	ErrNotFound            = errors.New("not found")
)
