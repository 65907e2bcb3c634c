package core

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey-austin/dlnactl/internal/ports"
)

// Service runs table commands against resolved renderers. Calls against the
// same renderer are serialized within the process; nothing coordinates with
// other controllers of the device.
type Service struct {
	Resolver Resolver
	Planner  *Planner
	Events   ports.EventSink
	Clock    ports.Clock
	IDGen    ports.IDGen
	Log      *zap.Logger

	locks sync.Map // UDN -> *sync.Mutex
}

func (s *Service) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// Renderers lists the renderers found by one discovery pass.
func (s *Service) Renderers(ctx context.Context) (RenderersResult, error) {
	renderers, err := s.Resolver.ListRenderers(ctx)
	if err != nil {
		return RenderersResult{}, err
	}
	return RenderersResult{Renderers: renderers}, nil
}

// Run resolves selector and executes the named command on it.
func (s *Service) Run(ctx context.Context, selector string, name string, raw []string) (any, error) {
	if _, err := Lookup(name); err != nil {
		return nil, err
	}
	r, err := s.Resolver.ResolveRenderer(ctx, selector)
	if err != nil {
		return nil, err
	}
	return s.Execute(ctx, r, name, raw)
}

// Status reads transport state, media info and position info.
func (s *Service) Status(ctx context.Context, selector string) (StatusResult, error) {
	r, err := s.Resolver.ResolveRenderer(ctx, selector)
	if err != nil {
		return StatusResult{}, err
	}
	out := StatusResult{Renderer: r.Name()}
	state, err := s.Execute(ctx, r, "get_state", nil)
	if err != nil {
		return StatusResult{}, err
	}
	out.State, _ = state.(TransportState)
	media, err := s.Execute(ctx, r, "get_media_info", nil)
	if err != nil {
		return StatusResult{}, err
	}
	out.Media, _ = media.(MediaInfo)
	pos, err := s.Execute(ctx, r, "get_position_info", nil)
	if err != nil {
		return StatusResult{}, err
	}
	out.Position, _ = pos.(PositionInfo)
	return out, nil
}

// Execute runs a command against an already resolved renderer.
func (s *Service) Execute(ctx context.Context, r *Renderer, name string, raw []string) (any, error) {
	mu := s.lockFor(r.UDN())
	mu.Lock()
	start := time.Now()
	result, err := Execute(ctx, s.Planner, r, name, raw)
	mu.Unlock()

	if err != nil {
		s.log().Debug("command failed",
			zap.String("command", name),
			zap.String("renderer", r.Name()),
			zap.String("kind", string(KindOf(err))),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
	} else {
		s.log().Debug("command done",
			zap.String("command", name),
			zap.String("renderer", r.Name()),
			zap.Duration("elapsed", time.Since(start)))
	}
	s.emit(ctx, r, name, raw, result, err)
	return result, err
}

func (s *Service) lockFor(udn string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(udn, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *Service) emit(ctx context.Context, r *Renderer, name string, raw []string, result any, cmdErr error) {
	if s.Events == nil {
		return
	}
	ev := ports.Event{
		DeviceUDN: r.UDN(),
		Device:    r.Name(),
		Command:   name,
		Args:      raw,
		OK:        cmdErr == nil,
		Result:    result,
	}
	if s.IDGen != nil {
		ev.ID = s.IDGen.NewID()
	}
	if s.Clock != nil {
		ev.TS = s.Clock.NowUnix()
	}
	if cmdErr != nil {
		ev.ErrorKind = string(KindOf(cmdErr))
		ev.Error = cmdErr.Error()
	}
	if err := s.Events.Emit(ctx, ev); err != nil {
		s.log().Warn("event emit failed", zap.String("command", name), zap.Error(err))
	}
}
