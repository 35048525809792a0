package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	eqdomain "github.com/abplan/abplan-backend/internal/equipment/domain"
	roomdomain "github.com/abplan/abplan-backend/internal/rooms/domain"
	"github.com/abplan/abplan-backend/internal/session/domain"
)

// RemoteStore serves sessions from a remote persistence API exposing the
// project, rooms and project-equipments routes.
type RemoteStore struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

type projectEnvelope struct {
	OK      bool `json:"ok"`
	Project struct {
		ID         string `json:"id"`
		PostalCode string `json:"postalCode"`
	} `json:"project"`
}

type roomsBody struct {
	Rooms []roomdomain.Room `json:"rooms"`
}

type equipmentsBody struct {
	ProjectID  string               `json:"projectId"`
	Equipments []eqdomain.Equipment `json:"equipments"`
}

// NewRemoteStore creates a client for baseURL. A zero timeout leaves
// requests bounded only by their context.
func NewRemoteStore(baseURL string, timeout time.Duration, logger *zap.Logger) *RemoteStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &RemoteStore{httpClient: client, logger: logger}
}

func (s *RemoteStore) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	var out projectEnvelope
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", projectID).
		SetResult(&out).
		Get("/projects/{id}")
	if err := s.check("get project", resp, err); err != nil {
		return nil, err
	}
	return &domain.Project{ID: out.Project.ID, PostalCode: out.Project.PostalCode}, nil
}

func (s *RemoteStore) GetRooms(ctx context.Context, projectID string) ([]roomdomain.Room, error) {
	var out roomsBody
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", projectID).
		SetResult(&out).
		Get("/projects/{id}/rooms")
	if err := s.check("get rooms", resp, err); err != nil {
		return nil, err
	}
	if out.Rooms == nil {
		out.Rooms = []roomdomain.Room{}
	}
	return out.Rooms, nil
}

func (s *RemoteStore) PutRooms(ctx context.Context, projectID string, rooms []roomdomain.Room) error {
	if rooms == nil {
		rooms = []roomdomain.Room{}
	}
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", projectID).
		SetBody(roomsBody{Rooms: rooms}).
		Put("/projects/{id}/rooms")
	return s.check("put rooms", resp, err)
}

func (s *RemoteStore) GetEquipments(ctx context.Context, projectID string) ([]eqdomain.Equipment, error) {
	var out equipmentsBody
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", projectID).
		SetResult(&out).
		Get("/project-equipments/{id}")
	if err := s.check("get equipments", resp, err); err != nil {
		return nil, err
	}
	if out.Equipments == nil {
		out.Equipments = []eqdomain.Equipment{}
	}
	return out.Equipments, nil
}

func (s *RemoteStore) PutEquipments(ctx context.Context, projectID string, list []eqdomain.Equipment) error {
	if list == nil {
		list = []eqdomain.Equipment{}
	}
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(equipmentsBody{ProjectID: projectID, Equipments: list}).
		Put("/project-equipments")
	return s.check("put equipments", resp, err)
}

func (s *RemoteStore) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		s.logger.Warn("persistence call failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if resp.IsError() {
		s.logger.Warn("persistence returned error",
			zap.String("op", op),
			zap.Int("status_code", resp.StatusCode()),
		)
		if resp.StatusCode() == http.StatusNotFound {
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to %s: status %d: %s", op, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}
