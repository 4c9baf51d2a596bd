// Package service serializes camera updates per camera id and connects the
// controller to the session store and the native bridge.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mohammed-shakir/camera-stop-engine/internal/bridge"
	"github.com/mohammed-shakir/camera-stop-engine/internal/camera/align"
	"github.com/mohammed-shakir/camera-stop-engine/internal/camera/controller"
	"github.com/mohammed-shakir/camera-stop-engine/internal/camera/region"
	"github.com/mohammed-shakir/camera-stop-engine/internal/camera/resolve"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/model"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/observability"
	"github.com/mohammed-shakir/camera-stop-engine/internal/session"
	"github.com/mohammed-shakir/camera-stop-engine/internal/session/keys"
)

const numShards = 64

var (
	ErrStore         = errors.New("session store")
	ErrInvalidEvent  = errors.New("unknown region event")
	ErrMissingCamera = errors.New("missing camera id")
)

type Options struct {
	Store           session.Store
	Bridge          bridge.Bridge
	Geometry        align.Geometry
	Logger          *slog.Logger
	DefaultViewport model.Viewport
	// StoreTimeout bounds each store call. Zero means no extra deadline.
	StoreTimeout time.Duration
}

type Service struct {
	store    session.Store
	bridge   bridge.Bridge
	geom     align.Geometry
	log      *slog.Logger
	viewport model.Viewport
	timeout  time.Duration

	shards [numShards]shard
}

// shard serializes every camera hashed onto it and owns their region
// trackers.
type shard struct {
	mu      sync.Mutex
	regions map[string]*region.Tracker
}

func New(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Bridge == nil {
		opts.Bridge = bridge.Log{L: opts.Logger}
	}
	s := &Service{
		store:    opts.Store,
		bridge:   opts.Bridge,
		geom:     opts.Geometry,
		log:      opts.Logger,
		viewport: opts.DefaultViewport,
		timeout:  opts.StoreTimeout,
	}
	for i := range s.shards {
		s.shards[i].regions = make(map[string]*region.Tracker)
	}
	return s
}

// Result describes what one call did to a camera.
type Result struct {
	CameraID  string           `json:"cameraId"`
	Changed   bool             `json:"changed"`
	Applied   int64            `json:"applied"`
	Following bool             `json:"following"`
	Commands  []bridge.Command `json:"commands"`
}

// ApplyIntent diffs next against the camera's stored intent, stores next and
// hands the resulting actions to the bridge. Bridge failures are logged and
// do not fail the call.
func (s *Service) ApplyIntent(ctx context.Context, cameraID string, next model.CameraIntent) (Result, error) {
	if cameraID == "" {
		return Result{}, ErrMissingCamera
	}
	sh := s.pick(cameraID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	st, _, err := s.load(ctx, cameraID)
	if err != nil {
		return Result{}, err
	}

	controller.CarryTrigger(st.Intent, &next)
	ns, actions := controller.ApplyIntent(st, next)
	observability.IncIntent(len(actions) > 0)

	if err := s.save(ctx, cameraID, ns); err != nil {
		return Result{}, err
	}

	cmds := s.dispatch(ctx, cameraID, actions)
	return Result{
		CameraID:  cameraID,
		Changed:   len(actions) > 0,
		Applied:   ns.Applied,
		Following: ns.Following(),
		Commands:  cmds,
	}, nil
}

// SetCamera runs an imperative move. The stored intent is left alone so the
// next declarative update still diffs against it.
func (s *Service) SetCamera(ctx context.Context, cameraID string, cfg controller.CameraConfig) (Result, error) {
	if cameraID == "" {
		return Result{}, ErrMissingCamera
	}
	sh := s.pick(cameraID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	st, _, err := s.load(ctx, cameraID)
	if err != nil {
		return Result{}, err
	}
	actions := controller.SetCamera(st, cfg)
	cmds := s.dispatch(ctx, cameraID, actions)
	return Result{
		CameraID:  cameraID,
		Changed:   len(actions) > 0,
		Applied:   st.Applied,
		Following: st.Following(),
		Commands:  cmds,
	}, nil
}

func (s *Service) Get(ctx context.Context, cameraID string) (controller.State, bool, error) {
	sh := s.pick(cameraID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return s.load(ctx, cameraID)
}

// Delete forgets the camera. The next intent diffs against the zero intent.
func (s *Service) Delete(ctx context.Context, cameraID string) error {
	sh := s.pick(cameraID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.regions, cameraID)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.store.Delete(ctx, cameraID); err != nil {
		return fmt.Errorf("%w: delete %q: %w", ErrStore, cameraID, err)
	}
	return nil
}

type AlignRequest struct {
	Target    model.Position  `json:"target"`
	Zoom      float64         `json:"zoomLevel"`
	Viewport  *model.Viewport `json:"viewport,omitempty"`
	Previous  *model.Region   `json:"previousRegion,omitempty"`
	Alignment [2]float64      `json:"alignment"`
}

func (s *Service) Align(req AlignRequest) model.Position {
	vp := s.viewport
	if req.Viewport != nil {
		vp = *req.Viewport
	}
	return align.Align(s.geom, req.Target, req.Zoom, vp, req.Previous, req.Alignment)
}

type RegionEventKind string

const (
	MoveStarted       RegionEventKind = "move_started"
	AnimationStarted  RegionEventKind = "animation_started"
	AnimationFinished RegionEventKind = "animation_finished"
	CameraIdle        RegionEventKind = "idle"
	CameraChanged     RegionEventKind = "changed"
)

// RegionInput is one native camera callback.
type RegionInput struct {
	Event    RegionEventKind `json:"event"`
	Reason   region.Reason   `json:"reason,omitempty"`
	Camera   region.Camera   `json:"camera"`
	Animated bool            `json:"animated,omitempty"`
	Viewport *model.Viewport `json:"viewport,omitempty"`
}

// Region feeds a native callback into the camera's region tracker. ok is
// false when the tracker emits nothing.
func (s *Service) Region(ctx context.Context, cameraID string, in RegionInput) (ev region.Event, ok bool, err error) {
	if cameraID == "" {
		return region.Event{}, false, ErrMissingCamera
	}
	sh := s.pick(cameraID)
	sh.mu.Lock()
	tr, found := sh.regions[cameraID]
	if !found {
		tr = region.NewTracker()
		sh.regions[cameraID] = tr
	}
	sh.mu.Unlock()

	cam := s.withVisibleBounds(in)
	switch in.Event {
	case MoveStarted:
		ev, ok = tr.MoveStarted(in.Reason, cam)
	case AnimationStarted:
		tr.AnimationStarted()
	case AnimationFinished:
		tr.AnimationFinished()
	case CameraIdle:
		ev, ok = tr.Idle(cam)
	case CameraChanged:
		ev, ok = tr.Changed(cam, in.Animated), true
	default:
		return region.Event{}, false, fmt.Errorf("%w: %q", ErrInvalidEvent, in.Event)
	}
	if ok {
		observability.IncRegionEvent(string(ev.Type))
		s.log.DebugContext(ctx, "region event", "type", string(ev.Type), "reason", tr.Reason().String())
	}
	return ev, ok, nil
}

func (s *Service) withVisibleBounds(in RegionInput) region.Camera {
	cam := in.Camera
	if cam.VisibleBounds != (model.Region{}) || s.geom == nil {
		return cam
	}
	vp := s.viewport
	if in.Viewport != nil {
		vp = *in.Viewport
	}
	cam.VisibleBounds = s.geom.VisibleRegion(cam.Center, cam.Zoom, vp, nil)
	return cam
}

func (s *Service) dispatch(ctx context.Context, cameraID string, actions []resolve.Action) []bridge.Command {
	if len(actions) == 0 {
		return []bridge.Command{}
	}
	for _, a := range actions {
		observability.IncAction(string(a.Kind()))
		countStops(a)
	}
	if err := s.bridge.Apply(ctx, cameraID, actions); err != nil {
		s.log.WarnContext(ctx, "bridge apply failed", "err", err, "actions", len(actions))
	}
	return bridge.Commands(cameraID, actions, time.Now().UTC())
}

func countStops(a resolve.Action) {
	switch v := a.(type) {
	case resolve.ManualStop:
		observeStop(v.Stop)
	case resolve.ManualStops:
		for _, sd := range v.Stops {
			observeStop(sd)
		}
	}
}

func observeStop(sd *model.StopDescriptor) {
	if sd == nil {
		return
	}
	target := "none"
	switch {
	case sd.Bounds != nil:
		target = "bounds"
	case sd.CenterCoordinate != nil:
		target = "center"
	}
	observability.IncStop(sd.Mode.String(), target)
}

func (s *Service) load(ctx context.Context, cameraID string) (controller.State, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	st, ok, err := s.store.Load(ctx, cameraID)
	if err != nil {
		return controller.State{}, false, fmt.Errorf("%w: load %q: %w", ErrStore, cameraID, err)
	}
	return st, ok, nil
}

func (s *Service) save(ctx context.Context, cameraID string, st controller.State) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.store.Save(ctx, cameraID, st); err != nil {
		return fmt.Errorf("%w: save %q: %w", ErrStore, cameraID, err)
	}
	return nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) pick(cameraID string) *shard {
	return &s.shards[keys.Shard(cameraID, numShards)]
}
