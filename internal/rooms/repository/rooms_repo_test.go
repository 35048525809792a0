package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/abplan/abplan-backend/internal/rooms/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRoomsRepo(t *testing.T) (*RoomsRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRoomsRepository(db), mock, db
}

func TestRoomsRepository_FindByProject(t *testing.T) {
	repo, mock, db := setupRoomsRepo(t)
	defer db.Close()
	ctx := context.Background()

	t.Run("decodes stored rooms", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`SELECT id, project_id, rooms`).
			WithArgs("p1").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "project_id", "rooms", "surface_loi_carrez", "created_at", "updated_at",
			}).AddRow("pr-1", "p1", []byte(`[{"id":"r1","name":"Cuisine","surface":12,"roomType":"Kitchen"}]`), 12.0, now, now))

		pr, err := repo.FindByProject(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, pr.Rooms, 1)
		assert.Equal(t, "Cuisine", pr.Rooms[0].Name)
		assert.Equal(t, domain.RoomKitchen, pr.Rooms[0].RoomType)
		assert.Equal(t, 12.0, pr.SurfaceLoiCarrez)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing configuration", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, project_id, rooms`).
			WithArgs("p2").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByProject(ctx, "p2")
		assert.ErrorIs(t, err, domain.ErrNoRoomConfiguration)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRoomsRepository_Save(t *testing.T) {
	repo, mock, db := setupRoomsRepo(t)
	defer db.Close()

	pr := &domain.ProjectRooms{
		ProjectID:        "p1",
		Rooms:            []domain.Room{{ID: "r1", Name: "Salon", Surface: 20}},
		SurfaceLoiCarrez: 20,
	}

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO project_rooms`).
		WithArgs(sqlmock.AnyArg(), "p1", sqlmock.AnyArg(), 20.0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("pr-1", now, now))

	require.NoError(t, repo.Save(context.Background(), pr))
	assert.Equal(t, "pr-1", pr.ID)
	assert.False(t, pr.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomsRepository_Delete(t *testing.T) {
	repo, mock, db := setupRoomsRepo(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM project_rooms`).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "p1"))

	mock.ExpectExec(`DELETE FROM project_rooms`).
		WithArgs("p1").
		WillReturnError(errors.New("boom"))
	assert.Error(t, repo.Delete(context.Background(), "p1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
