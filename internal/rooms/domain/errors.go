package domain

import "errors"

var (
	ErrInvalidRoom         = errors.New("invalid room")
	ErrRoomNotFound        = errors.New("room not found")
	ErrNoRoomConfiguration = errors.New("no room configuration for project")
	ErrDuplicateRoomID     = errors.New("duplicate room id")
)
