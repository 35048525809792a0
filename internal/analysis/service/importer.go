package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/abplan/abplan-backend/internal/analysis/domain"
	roomdomain "github.com/abplan/abplan-backend/internal/rooms/domain"
	roomsvc "github.com/abplan/abplan-backend/internal/rooms/service"
)

type Engine interface {
	Analyze(ctx context.Context, images []string) ([]domain.DetectedRoom, error)
}

type RoomSeeder interface {
	InitializeFromAnalysis(ctx context.Context, projectID string, analysed []roomsvc.AnalysedRoom) (*roomdomain.ProjectRooms, bool, error)
}

// Reloader refreshes a live editing session after its rooms changed
// underneath it.
type Reloader interface {
	Reload(ctx context.Context, projectID string) error
}

// Result is the outcome of one analysis action.
type Result struct {
	Rooms   *roomdomain.ProjectRooms `json:"rooms"`
	Created bool                     `json:"created"`
	Found   int                      `json:"found"`
}

// Importer turns a floor plan analysis into the project's first room list.
type Importer struct {
	engine   Engine
	rooms    RoomSeeder
	reloader Reloader
	log      *zap.Logger
}

// NewImporter creates an importer. reloader may be nil.
func NewImporter(engine Engine, rooms RoomSeeder, reloader Reloader, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{engine: engine, rooms: rooms, reloader: reloader, log: log}
}

// Analyze runs the analysis once and seeds the rooms when the project has
// none. An existing room list is never overwritten.
func (i *Importer) Analyze(ctx context.Context, projectID string, images []string) (*Result, error) {
	refs := make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			refs = append(refs, img)
		}
	}
	if len(refs) == 0 {
		return nil, domain.ErrNoImages
	}

	detected, err := i.engine.Analyze(ctx, refs)
	if err != nil {
		return nil, err
	}

	analysed := make([]roomsvc.AnalysedRoom, 0, len(detected))
	for _, d := range detected {
		analysed = append(analysed, roomsvc.AnalysedRoom{Name: d.Name, Surface: d.Surface, RoomType: d.Type()})
	}

	pr, created, err := i.rooms.InitializeFromAnalysis(ctx, projectID, analysed)
	if err != nil {
		return nil, err
	}
	if created && i.reloader != nil {
		if err := i.reloader.Reload(ctx, projectID); err != nil {
			i.log.Warn("failed to reload session after analysis", zap.String("project_id", projectID), zap.Error(err))
		}
	}
	return &Result{Rooms: pr, Created: created, Found: len(detected)}, nil
}
