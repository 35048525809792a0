package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	compliance "github.com/abplan/abplan-backend/internal/compliance/domain"
	compliancesvc "github.com/abplan/abplan-backend/internal/compliance/service"
	eqdomain "github.com/abplan/abplan-backend/internal/equipment/domain"
	eqsvc "github.com/abplan/abplan-backend/internal/equipment/service"
	roomdomain "github.com/abplan/abplan-backend/internal/rooms/domain"
	"github.com/abplan/abplan-backend/internal/session/domain"
	"github.com/abplan/abplan-backend/internal/writer"
)

// Store is the persistence collaborator. Put operations replace the whole
// stored collection.
type Store interface {
	GetProject(ctx context.Context, projectID string) (*domain.Project, error)
	GetRooms(ctx context.Context, projectID string) ([]roomdomain.Room, error)
	PutRooms(ctx context.Context, projectID string, rooms []roomdomain.Room) error
	GetEquipments(ctx context.Context, projectID string) ([]eqdomain.Equipment, error)
	PutEquipments(ctx context.Context, projectID string, list []eqdomain.Equipment) error
}

// VerdictStore is the verdict cache shared by all sessions.
type VerdictStore interface {
	compliancesvc.Cache
	Invalidate(ctx context.Context, projectID string) error
}

type Deps struct {
	Store  Store
	Engine compliancesvc.Engine
	Cache  VerdictStore // optional
	Merger *eqsvc.Merger
	Delay  time.Duration
	Logger *zap.Logger
}

// Status is the view of a session returned to clients.
type Status struct {
	ProjectID        string                        `json:"projectId"`
	State            domain.State                  `json:"state"`
	Rooms            []roomdomain.Room             `json:"rooms"`
	SurfaceLoiCarrez float64                       `json:"surfaceLoiCarrez"`
	Equipments       []eqdomain.Equipment          `json:"equipments"`
	Options          eqdomain.ProjectOptions       `json:"options"`
	Signature        string                        `json:"signature,omitempty"`
	Stale            bool                          `json:"stale"`
	Compliance       compliancesvc.Status          `json:"compliance"`
	Writes           map[string]domain.WriteStatus `json:"writes"`
}

// Session is the server-side editing session of one project. Local state is
// optimistic: failed writes keep it and can be retried.
type Session struct {
	projectID string
	deps      Deps
	log       *zap.Logger
	rv        *compliancesvc.Revalidator
	bgCtx     context.Context
	bg        sync.WaitGroup

	roomEquipmentCh *writer.Channel[[]eqdomain.Equipment]
	optionsCh       *writer.Channel[eqdomain.ProjectOptions]
	roomsCh         *writer.Channel[[]roomdomain.Room]

	mu         sync.Mutex
	loaded     bool
	postalCode string
	rooms      []roomdomain.Room
	equipment  []eqdomain.Equipment // equipment partition only
	options    eqdomain.ProjectOptions
}

func NewSession(ctx context.Context, projectID string, deps Deps) *Session {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Merger == nil {
		deps.Merger = eqsvc.NewMerger(deps.Logger)
	}
	s := &Session{
		projectID: projectID,
		deps:      deps,
		log:       deps.Logger.With(zap.String("project_id", projectID)),
		bgCtx:     context.WithoutCancel(ctx),
		options:   eqdomain.ProjectOptions{Type: eqdomain.SystemNone},
	}
	s.rv = compliancesvc.NewRevalidator(projectID, deps.Engine, deps.Cache, deps.Logger)

	s.roomEquipmentCh = writer.NewChannel(ctx, writer.Options[[]eqdomain.Equipment]{
		Name:      domain.ChannelRoomEquipment,
		Delay:     deps.Delay,
		Snapshot:  s.snapshotEquipment,
		Write:     s.writeRoomEquipment,
		OnSuccess: func([]eqdomain.Equipment) { s.validateIfStale() },
		Logger:    s.log,
	})
	s.optionsCh = writer.NewChannel(ctx, writer.Options[eqdomain.ProjectOptions]{
		Name:      domain.ChannelOptions,
		Delay:     deps.Delay,
		Snapshot:  s.snapshotOptions,
		Write:     s.writeOptions,
		OnSuccess: func(eqdomain.ProjectOptions) { s.validateIfStale() },
		Logger:    s.log,
	})
	s.roomsCh = writer.NewChannel(ctx, writer.Options[[]roomdomain.Room]{
		Name:      domain.ChannelRooms,
		Delay:     deps.Delay,
		Snapshot:  s.snapshotRooms,
		Write:     s.writeRooms,
		OnSuccess: func([]roomdomain.Room) { s.validateIfStale() },
		Logger:    s.log,
	})
	return s
}

func (s *Session) ProjectID() string { return s.projectID }

func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Load re-fetches the project from the store, replacing local state. Pending
// writes are flushed first; the ones that fail are lost to the reload.
func (s *Session) Load(ctx context.Context) (Status, error) {
	if err := s.flushWrites(ctx); err != nil {
		s.log.Warn("discarding unsaved changes on reload", zap.Error(err))
	}

	project, err := s.deps.Store.GetProject(ctx, s.projectID)
	if err != nil {
		return Status{}, err
	}
	rooms, err := s.deps.Store.GetRooms(ctx, s.projectID)
	if err != nil {
		return Status{}, err
	}
	list, err := s.deps.Store.GetEquipments(ctx, s.projectID)
	if err != nil {
		return Status{}, err
	}

	s.mu.Lock()
	s.loaded = true
	s.postalCode = project.PostalCode
	s.rooms = clone(rooms)
	s.equipment = eqdomain.Partition(list, eqdomain.CategoryEquipment)
	s.options = eqdomain.OptionsFromEquipments(list)
	hasRooms := len(s.rooms) > 0
	s.mu.Unlock()

	s.rv.Restore(ctx)
	if hasRooms && s.rv.Verdict() == nil {
		s.validateInBackground()
	}

	s.log.Debug("session loaded", zap.Int("rooms", len(rooms)), zap.Int("equipments", len(list)))
	return s.Status(), nil
}

// mutate applies fn to the local state of a loaded session.
func (s *Session) mutate(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return domain.ErrSessionNotLoaded
	}
	return fn()
}

// AddEquipment adds one record to a room and saves immediately.
func (s *Session) AddEquipment(e eqdomain.Equipment) (Status, error) {
	err := s.mutate(func() error {
		room, ok := findRoom(s.rooms, e.RoomID)
		if !ok {
			return fmt.Errorf("room %q: %w", e.RoomID, domain.ErrNotFound)
		}
		e.Category = eqdomain.CategoryEquipment
		if e.Type != "" && !eqdomain.AllowedInRoom(e.Type, roomdomain.IsKitchen(room.EffectiveType())) {
			return fmt.Errorf("%w: %s in %s", domain.ErrEquipmentNotAllowed, e.Type, room.Name)
		}
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if err := e.Validate(); err != nil {
			return err
		}
		s.equipment = eqdomain.Dedupe(append(clone(s.equipment), e))
		return nil
	})
	if err != nil {
		return Status{}, err
	}
	s.roomEquipmentCh.Now()
	return s.Status(), nil
}

func (s *Session) RemoveEquipment(id string) (Status, error) {
	err := s.mutate(func() error {
		next, err := eqdomain.RemoveByID(s.equipment, id)
		if err != nil {
			return err
		}
		s.equipment = next
		return nil
	})
	if err != nil {
		return Status{}, err
	}
	s.roomEquipmentCh.Now()
	return s.Status(), nil
}

// AdjustQuantity changes a record's quantity; a record reaching zero is
// removed. The save is debounced.
func (s *Session) AdjustQuantity(id string, delta int) (Status, error) {
	err := s.mutate(func() error {
		next, err := eqdomain.AdjustQuantity(s.equipment, id, delta)
		if err != nil {
			return err
		}
		s.equipment = next
		return nil
	})
	if err != nil {
		return Status{}, err
	}
	s.roomEquipmentCh.Schedule()
	return s.Status(), nil
}

// SetColor applies one finish to every colored record.
func (s *Session) SetColor(color string) (Status, error) {
	err := s.mutate(func() error {
		s.equipment = eqdomain.ApplyColor(s.equipment, color)
		return nil
	})
	if err != nil {
		return Status{}, err
	}
	s.roomEquipmentCh.Schedule()
	return s.Status(), nil
}

func (s *Session) UpdateOptions(opts eqdomain.ProjectOptions) (Status, error) {
	err := s.mutate(func() error {
		s.options = opts
		return nil
	})
	if err != nil {
		return Status{}, err
	}
	s.optionsCh.Schedule()
	return s.Status(), nil
}

func (s *Session) AddRoom(room roomdomain.Room) (Status, error) {
	err := s.mutate(func() error {
		if room.ID == "" {
			room.ID = uuid.New().String()
		}
		if err := room.Validate(); err != nil {
			return err
		}
		next, err := roomdomain.Add(s.rooms, room)
		if err != nil {
			return err
		}
		s.rooms = next
		return nil
	})
	if err != nil {
		return Status{}, err
	}
	s.roomsCh.Now()
	return s.Status(), nil
}

// UpdateRoom edits a room's name, surface, type or options. The save is
// debounced and held while a room edit is in progress.
func (s *Session) UpdateRoom(room roomdomain.Room) (Status, error) {
	err := s.mutate(func() error {
		if err := room.Validate(); err != nil {
			return err
		}
		next, err := roomdomain.Update(s.rooms, room)
		if err != nil {
			return err
		}
		s.rooms = next
		return nil
	})
	if err != nil {
		return Status{}, err
	}
	s.roomsCh.Schedule()
	return s.Status(), nil
}

// DeleteRoom removes a room together with its equipment.
func (s *Session) DeleteRoom(id string) (Status, error) {
	err := s.mutate(func() error {
		next, err := roomdomain.Remove(s.rooms, id)
		if err != nil {
			return err
		}
		s.rooms = next
		s.equipment = eqdomain.RemoveRoom(s.equipment, id)
		return nil
	})
	if err != nil {
		return Status{}, err
	}
	s.roomsCh.Now()
	s.roomEquipmentCh.Now()
	return s.Status(), nil
}

// BeginRoomEdit holds room saves while a text field has focus.
func (s *Session) BeginRoomEdit() error {
	if err := s.mutate(func() error { return nil }); err != nil {
		return err
	}
	s.roomsCh.BeginEdit()
	return nil
}

// ConfirmRoomEdit ends the hold and saves what was deferred.
func (s *Session) ConfirmRoomEdit() (Status, error) {
	if err := s.mutate(func() error { return nil }); err != nil {
		return Status{}, err
	}
	s.roomsCh.EndEdit(true)
	return s.Status(), nil
}

// Purge empties the project's rooms and whole equipment collection and
// forgets its verdicts.
func (s *Session) Purge(ctx context.Context) (Status, error) {
	if err := s.flushWrites(ctx); err != nil {
		s.log.Warn("pending writes failed before purge", zap.Error(err))
	}
	err := s.mutate(func() error {
		s.rooms = roomdomain.Purge()
		s.equipment = []eqdomain.Equipment{}
		s.options = eqdomain.ProjectOptions{Type: eqdomain.SystemNone}
		return nil
	})
	if err != nil {
		return Status{}, err
	}

	if err := s.deps.Store.PutRooms(ctx, s.projectID, []roomdomain.Room{}); err != nil {
		return Status{}, fmt.Errorf("purge rooms: %w: %w", writer.ErrPersistenceFailure, err)
	}
	if err := s.deps.Store.PutEquipments(ctx, s.projectID, []eqdomain.Equipment{}); err != nil {
		return Status{}, fmt.Errorf("purge equipment: %w: %w", writer.ErrPersistenceFailure, err)
	}

	s.rv.Reset()
	if s.deps.Cache != nil {
		if err := s.deps.Cache.Invalidate(ctx, s.projectID); err != nil {
			s.log.Warn("failed to invalidate verdicts", zap.Error(err))
		}
	}
	s.log.Info("project purged")
	return s.Status(), nil
}

// Revalidate validates the current state now, whether stale or not.
func (s *Session) Revalidate(ctx context.Context) (Status, error) {
	req, sig, err := s.validationInput()
	if err != nil {
		return Status{}, err
	}
	_, err = s.rv.Validate(ctx, req, sig)
	return s.Status(), err
}

// ApplySuggestions adds the equipment the last verdict reports missing and
// waits for the room equipment write. A report with nothing applied leaves
// the session untouched.
func (s *Session) ApplySuggestions(ctx context.Context) (compliance.SuggestionReport, Status, error) {
	v := s.rv.Verdict()
	if v == nil {
		return compliance.SuggestionReport{}, Status{}, compliance.ErrVerdictNotFound
	}
	if !compliance.HasSuggestions(v.Response) {
		return compliance.SuggestionReport{}, Status{}, compliance.ErrNoSuggestions
	}

	var report compliance.SuggestionReport
	err := s.mutate(func() error {
		roomIDs := make([]string, 0, len(s.rooms))
		for _, room := range s.rooms {
			roomIDs = append(roomIDs, room.ID)
		}
		next, r := compliance.ApplySuggestions(v.Response, s.viewLocked(), roomIDs)
		report = r
		if r.NoOp() {
			return nil
		}
		roomEquipment := eqdomain.Partition(next, eqdomain.CategoryEquipment)
		for i := range roomEquipment {
			if roomEquipment[i].ID == "" {
				roomEquipment[i].ID = uuid.New().String()
			}
		}
		s.equipment = roomEquipment
		return nil
	})
	if err != nil {
		return report, Status{}, err
	}
	if report.NoOp() {
		s.log.Info("no automatic fix available", zap.Int("unresolved", len(report.Unresolved)))
		return report, s.Status(), nil
	}

	s.roomEquipmentCh.Now()
	err = s.roomEquipmentCh.Flush(ctx)
	return report, s.Status(), err
}

// RetryWrites re-dispatches every channel whose last write failed.
func (s *Session) RetryWrites() (Status, int) {
	n := 0
	for _, retry := range []func() bool{s.roomEquipmentCh.Retry, s.optionsCh.Retry, s.roomsCh.Retry} {
		if retry() {
			n++
		}
	}
	return s.Status(), n
}

// Flush saves every pending change and waits for it and for background
// validations.
func (s *Session) Flush(ctx context.Context) error {
	err := s.flushWrites(ctx)

	done := make(chan struct{})
	go func() {
		s.bg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return errors.Join(err, ctx.Err())
	}
	return err
}

func (s *Session) flushWrites(ctx context.Context) error {
	return errors.Join(
		s.roomEquipmentCh.Flush(ctx),
		s.optionsCh.Flush(ctx),
		s.roomsCh.Flush(ctx),
	)
}

// Pending reports whether any write is scheduled or in flight.
func (s *Session) Pending() bool {
	return s.roomEquipmentCh.Pending() || s.optionsCh.Pending() || s.roomsCh.Pending()
}

func (s *Session) State() domain.State {
	return s.Status().State
}

func (s *Session) Status() Status {
	s.mu.Lock()
	loaded := s.loaded
	st := Status{
		ProjectID:        s.projectID,
		Rooms:            clone(s.rooms),
		SurfaceLoiCarrez: roomdomain.TotalSurface(s.rooms),
		Equipments:       s.viewLocked(),
		Options:          s.options,
	}
	if loaded {
		st.Signature = compliance.Signature(st.Rooms, st.Equipments)
	}
	s.mu.Unlock()

	st.Compliance = s.rv.Status()
	st.Stale = loaded && s.rv.IsStale(st.Signature)
	switch {
	case !loaded:
		st.State = domain.StateUninitialized
	case st.Compliance.State == compliancesvc.StateValidating:
		st.State = domain.StateValidating
	case st.Compliance.Verdict == nil:
		st.State = domain.StateLoaded
	case st.Stale:
		st.State = domain.StateStale
	default:
		st.State = domain.StateValidated
	}

	st.Writes = map[string]domain.WriteStatus{
		domain.ChannelRoomEquipment: writeStatus(s.roomEquipmentCh.Pending(), s.roomEquipmentCh.LastError()),
		domain.ChannelOptions:       writeStatus(s.optionsCh.Pending(), s.optionsCh.LastError()),
		domain.ChannelRooms:         writeStatus(s.roomsCh.Pending(), s.roomsCh.LastError()),
	}
	return st
}

// viewLocked is the project's whole equipment collection as edited locally.
func (s *Session) viewLocked() []eqdomain.Equipment {
	all := clone(s.equipment)
	all = append(all, eqdomain.OptionsToEquipments(s.options)...)
	return eqdomain.Dedupe(all)
}

func (s *Session) validationInput() (compliance.ValidationRequest, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return compliance.ValidationRequest{}, "", domain.ErrSessionNotLoaded
	}
	if len(s.rooms) == 0 {
		return compliance.ValidationRequest{}, "", compliance.ErrNoRooms
	}
	view := s.viewLocked()
	return compliance.BuildRequest(s.projectID, s.postalCode, s.rooms, view), compliance.Signature(s.rooms, view), nil
}

// validateIfStale runs after a successful write.
func (s *Session) validateIfStale() {
	_, sig, err := s.validationInput()
	if err != nil {
		return
	}
	if s.rv.Verdict() != nil && !s.rv.IsStale(sig) {
		return
	}
	s.validateInBackground()
}

func (s *Session) validateInBackground() {
	req, sig, err := s.validationInput()
	if err != nil {
		return
	}
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		// Failures are recorded by the revalidator.
		_, _ = s.rv.Validate(s.bgCtx, req, sig)
	}()
}

// writeRoomEquipment re-reads the stored collection so that only its
// equipment partition is replaced by the local one.
func (s *Session) writeRoomEquipment(ctx context.Context, local []eqdomain.Equipment) error {
	stored, err := s.deps.Store.GetEquipments(ctx, s.projectID)
	if err != nil {
		return err
	}
	return s.deps.Store.PutEquipments(ctx, s.projectID, s.deps.Merger.MergeRoomEquipments(local, stored))
}

// writeOptions re-reads the stored collection and replaces only its option
// partition.
func (s *Session) writeOptions(ctx context.Context, opts eqdomain.ProjectOptions) error {
	stored, err := s.deps.Store.GetEquipments(ctx, s.projectID)
	if err != nil {
		return err
	}
	return s.deps.Store.PutEquipments(ctx, s.projectID, s.deps.Merger.MergeOptionEquipments(opts, stored))
}

func (s *Session) writeRooms(ctx context.Context, rooms []roomdomain.Room) error {
	return s.deps.Store.PutRooms(ctx, s.projectID, rooms)
}

// Snapshots are taken when a write is dispatched.

func (s *Session) snapshotEquipment() []eqdomain.Equipment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.equipment)
}

func (s *Session) snapshotOptions() eqdomain.ProjectOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

func (s *Session) snapshotRooms() []roomdomain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.rooms)
}

func findRoom(rooms []roomdomain.Room, id string) (roomdomain.Room, bool) {
	for _, r := range rooms {
		if r.ID == id {
			return r, true
		}
	}
	return roomdomain.Room{}, false
}

func writeStatus(pending bool, err error) domain.WriteStatus {
	ws := domain.WriteStatus{Pending: pending}
	if err != nil {
		ws.Error = err.Error()
	}
	return ws
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
