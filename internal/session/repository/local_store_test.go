package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eqdomain "github.com/abplan/abplan-backend/internal/equipment/domain"
	projectdomain "github.com/abplan/abplan-backend/internal/projects/domain"
	roomdomain "github.com/abplan/abplan-backend/internal/rooms/domain"
	"github.com/abplan/abplan-backend/internal/session/domain"
)

type fakeProjects map[string]*projectdomain.Project

func (f fakeProjects) Get(_ context.Context, id string) (*projectdomain.Project, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, projectdomain.ErrProjectNotFound
}

type fakeRooms struct{ rooms []roomdomain.Room }

func (f *fakeRooms) Get(_ context.Context, projectID string) (*roomdomain.ProjectRooms, error) {
	return &roomdomain.ProjectRooms{ProjectID: projectID, Rooms: f.rooms}, nil
}

func (f *fakeRooms) Replace(_ context.Context, projectID string, rooms []roomdomain.Room) (*roomdomain.ProjectRooms, error) {
	f.rooms = rooms
	return &roomdomain.ProjectRooms{ProjectID: projectID, Rooms: rooms}, nil
}

type fakeEquipment struct{ list []eqdomain.Equipment }

func (f *fakeEquipment) Get(_ context.Context, projectID string) (*eqdomain.ProjectEquipments, error) {
	return &eqdomain.ProjectEquipments{ProjectID: projectID, Equipments: f.list}, nil
}

func (f *fakeEquipment) Replace(_ context.Context, projectID string, list []eqdomain.Equipment) (*eqdomain.ProjectEquipments, error) {
	f.list = list
	return &eqdomain.ProjectEquipments{ProjectID: projectID, Equipments: list}, nil
}

func TestLocalStore(t *testing.T) {
	rooms := &fakeRooms{}
	equipment := &fakeEquipment{}
	store := NewLocalStore(fakeProjects{"abplan-1": {ID: "abplan-1", PostalCode: "69003"}}, rooms, equipment)
	ctx := context.Background()

	p, err := store.GetProject(ctx, "abplan-1")
	require.NoError(t, err)
	assert.Equal(t, &domain.Project{ID: "abplan-1", PostalCode: "69003"}, p)

	_, err = store.GetProject(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.PutRooms(ctx, "abplan-1", []roomdomain.Room{{ID: "r1", Name: "Salon", Surface: 12}}))
	got, err := store.GetRooms(ctx, "abplan-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, store.PutEquipments(ctx, "abplan-1", []eqdomain.Equipment{{ID: "e1", Name: "Prise", Quantity: 1, RoomID: "r1", Category: eqdomain.CategoryEquipment}}))
	list, err := store.GetEquipments(ctx, "abplan-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
