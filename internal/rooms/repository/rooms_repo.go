package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abplan/abplan-backend/internal/rooms/domain"
	"github.com/google/uuid"
)

// RoomsRepository handles PostgreSQL operations for project room configurations
type RoomsRepository struct {
	db *sql.DB
}

// NewRoomsRepository creates a new RoomsRepository
func NewRoomsRepository(db *sql.DB) *RoomsRepository {
	return &RoomsRepository{db: db}
}

// FindByProject returns the room configuration of a project, or
// domain.ErrNoRoomConfiguration when none was ever stored.
func (r *RoomsRepository) FindByProject(ctx context.Context, projectID string) (*domain.ProjectRooms, error) {
	query := `
		SELECT id, project_id, rooms, surface_loi_carrez, created_at, updated_at
		FROM project_rooms
		WHERE project_id = $1
	`

	var pr domain.ProjectRooms
	var roomsJSON []byte

	err := r.db.QueryRowContext(ctx, query, projectID).Scan(
		&pr.ID,
		&pr.ProjectID,
		&roomsJSON,
		&pr.SurfaceLoiCarrez,
		&pr.CreatedAt,
		&pr.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoRoomConfiguration
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project rooms: %w", err)
	}

	pr.Rooms = []domain.Room{}
	if len(roomsJSON) > 0 {
		if err := json.Unmarshal(roomsJSON, &pr.Rooms); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rooms: %w", err)
		}
	}

	return &pr, nil
}

// Save upserts the whole room list of a project. The stored total surface is
// whatever the caller computed; the service always passes TotalSurface(rooms).
func (r *RoomsRepository) Save(ctx context.Context, pr *domain.ProjectRooms) error {
	if pr.ID == "" {
		pr.ID = uuid.New().String()
	}
	if pr.Rooms == nil {
		pr.Rooms = []domain.Room{}
	}

	query := `
		INSERT INTO project_rooms (id, project_id, rooms, surface_loi_carrez)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_id) DO UPDATE SET
			rooms = EXCLUDED.rooms,
			surface_loi_carrez = EXCLUDED.surface_loi_carrez,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	roomsJSON, err := json.Marshal(pr.Rooms)
	if err != nil {
		return fmt.Errorf("failed to marshal rooms: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query, pr.ID, pr.ProjectID, roomsJSON, pr.SurfaceLoiCarrez).
		Scan(&pr.ID, &pr.CreatedAt, &pr.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save project rooms: %w", err)
	}

	return nil
}

// Delete removes the room configuration of a project.
func (r *RoomsRepository) Delete(ctx context.Context, projectID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM project_rooms WHERE project_id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project rooms: %w", err)
	}
	return nil
}
