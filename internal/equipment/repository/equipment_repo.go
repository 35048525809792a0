package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abplan/abplan-backend/internal/equipment/domain"
	"github.com/lib/pq"
)

// EquipmentRepository stores one row per equipment record in project_equipment.
type EquipmentRepository struct {
	db *sql.DB
}

// NewEquipmentRepository creates a new EquipmentRepository
func NewEquipmentRepository(db *sql.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

// FindByProject returns the stored collection in write order. A project
// without rows yields an empty collection.
func (r *EquipmentRepository) FindByProject(ctx context.Context, projectID string) (*domain.ProjectEquipments, error) {
	query := `
		SELECT id, name, quantity, COALESCE(room_id, ''), category, COALESCE(type, ''),
		       metadata, created_at, updated_at
		FROM project_equipment
		WHERE project_id = $1
		ORDER BY position, created_at
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query project equipment: %w", err)
	}
	defer rows.Close()

	pe := &domain.ProjectEquipments{ProjectID: projectID, Equipments: []domain.Equipment{}}
	for rows.Next() {
		var e domain.Equipment
		var category string
		var metadataJSON []byte
		var createdAt, updatedAt time.Time

		if err := rows.Scan(&e.ID, &e.Name, &e.Quantity, &e.RoomID, &category, &e.Type,
			&metadataJSON, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project equipment: %w", err)
		}
		e.Category = domain.Category(category)

		if len(metadataJSON) > 0 && string(metadataJSON) != "null" {
			if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata of %s: %w", e.ID, err)
			}
		}

		if pe.CreatedAt.IsZero() || createdAt.Before(pe.CreatedAt) {
			pe.CreatedAt = createdAt
		}
		if updatedAt.After(pe.UpdatedAt) {
			pe.UpdatedAt = updatedAt
		}
		pe.Equipments = append(pe.Equipments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return pe, nil
}

// ReplaceAll substitutes the whole stored collection of a project in one
// transaction. Every record must already carry an ID.
func (r *EquipmentRepository) ReplaceAll(ctx context.Context, projectID string, list []domain.Equipment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_equipment WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("failed to clear project equipment: %w", err)
	}

	if len(list) > 0 {
		ids := make([]string, len(list))
		names := make([]string, len(list))
		quantities := make([]int64, len(list))
		roomIDs := make([]string, len(list))
		categories := make([]string, len(list))
		types := make([]string, len(list))
		metadata := make([]string, len(list))

		for i, e := range list {
			ids[i] = e.ID
			names[i] = e.Name
			quantities[i] = int64(e.Quantity)
			roomIDs[i] = e.RoomID
			categories[i] = string(e.Category)
			types[i] = e.Type
			metadata[i] = "{}"
			if len(e.Metadata) > 0 {
				b, err := json.Marshal(e.Metadata)
				if err != nil {
					return fmt.Errorf("failed to marshal metadata of %s: %w", e.ID, err)
				}
				metadata[i] = string(b)
			}
		}

		insert := `
			INSERT INTO project_equipment
				(id, project_id, position, name, quantity, room_id, category, type, metadata)
			SELECT u.id::uuid, $1, u.position, u.name, u.quantity, NULLIF(u.room_id, ''),
			       u.category, NULLIF(u.type, ''), u.metadata::jsonb
			FROM unnest($2::text[], $3::text[], $4::int[], $5::text[], $6::text[], $7::text[], $8::text[])
				WITH ORDINALITY AS u(id, name, quantity, room_id, category, type, metadata, position)
		`
		_, err := tx.ExecContext(ctx, insert, projectID,
			pq.Array(ids), pq.Array(names), pq.Array(quantities), pq.Array(roomIDs),
			pq.Array(categories), pq.Array(types), pq.Array(metadata))
		if err != nil {
			return translate(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit project equipment: %w", err)
	}
	return nil
}

// DeleteByProject removes every record of a project.
func (r *EquipmentRepository) DeleteByProject(ctx context.Context, projectID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM project_equipment WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("failed to delete project equipment: %w", err)
	}
	return nil
}

func translate(err error) error {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return domain.ErrUnknownProject
		case "22P02", "23514": // invalid_text_representation, check_violation
			return fmt.Errorf("%w: %s", domain.ErrMalformedEquipment, pgErr.Message)
		}
	}
	return fmt.Errorf("failed to insert project equipment: %w", err)
}
