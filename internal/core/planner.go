package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey-austin/dlnactl/internal/ports"
	"github.com/mikey-austin/dlnactl/pkg/dlna"
)

// Planner turns playback intents into clamped device actions. Every
// precondition is read live; a failed read aborts before anything is written.
//
// A read followed by a write is not atomic with respect to other controllers
// of the same device: last write wins.
type Planner struct {
	Invoker      ports.Invoker
	SeekTimeUnit string
	Log          *zap.Logger
}

// SeekResult reports the action actually sent.
type SeekResult struct {
	Unit   string `json:"unit"`
	Target string `json:"target"`
}

// NewPlanner creates a planner seeking with ABS_TIME.
func NewPlanner(inv ports.Invoker, log *zap.Logger) *Planner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Planner{Invoker: inv, SeekTimeUnit: dlna.SeekUnitAbsTime, Log: log}
}

func (p *Planner) log() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

// SeekAbsolute seeks to the given "H:MM:SS" time, clamped to the track duration.
func (p *Planner) SeekAbsolute(ctx context.Context, r *Renderer, target string) (SeekResult, error) {
	desired, err := ParseClock(target)
	if err != nil {
		return SeekResult{}, withOp(err, "seek_abs")
	}
	duration, err := p.trackDuration(ctx, r, "seek_abs")
	if err != nil {
		return SeekResult{}, err
	}
	return p.seekTime(ctx, r, "seek_abs", desired, duration)
}

// SeekPercent seeks to pct of the current track.
func (p *Planner) SeekPercent(ctx context.Context, r *Renderer, pct float64) (SeekResult, error) {
	duration, err := p.trackDuration(ctx, r, "seek_percent")
	if err != nil {
		return SeekResult{}, err
	}
	return p.seekTime(ctx, r, "seek_percent", PercentToDuration(pct, duration), duration)
}

// SeekTrack seeks to a 1-based track number clamped to [1, NrTracks].
func (p *Planner) SeekTrack(ctx context.Context, r *Renderer, track int) (SeekResult, error) {
	resp, err := p.read(ctx, r, "seek_track", dlna.ServiceTypeAVTransport, "GetMediaInfo", instanceArgs())
	if err != nil {
		return SeekResult{}, err
	}
	nrTracks, err := strconv.Atoi(strings.TrimSpace(resp["NrTracks"]))
	if err != nil {
		return SeekResult{}, newError(KindDeviceQuery, "seek_track", fmt.Sprintf("NrTracks %q", resp["NrTracks"]), err)
	}
	target := max(1, min(nrTracks, track))
	if target != track {
		p.log().Debug("track target clamped",
			zap.String("renderer", r.Name()),
			zap.Int("desired", track),
			zap.Int("target", target),
			zap.Int("nr_tracks", nrTracks))
	}
	return p.seek(ctx, r, "seek_track", dlna.SeekUnitTrackNr, strconv.Itoa(target))
}

// SeekTrackRelative moves step tracks from the current one.
func (p *Planner) SeekTrackRelative(ctx context.Context, r *Renderer, step int) (SeekResult, error) {
	resp, err := p.read(ctx, r, "seek_track_relative", dlna.ServiceTypeAVTransport, "GetPositionInfo", instanceArgs())
	if err != nil {
		return SeekResult{}, err
	}
	current, err := strconv.Atoi(strings.TrimSpace(resp["Track"]))
	if err != nil {
		return SeekResult{}, newError(KindDeviceQuery, "seek_track_relative", fmt.Sprintf("Track %q", resp["Track"]), err)
	}
	return p.SeekTrack(ctx, r, current+step)
}

// SetVolume sets the volume from a percentage and returns the native value sent.
func (p *Planner) SetVolume(ctx context.Context, r *Renderer, pct float64) (int64, error) {
	maxVolume, err := p.maxVolume(r, "set_volume")
	if err != nil {
		return 0, err
	}
	native := PercentToNative(pct, maxVolume)
	p.log().Debug("volume planned",
		zap.String("renderer", r.Name()),
		zap.Float64("percent", pct),
		zap.Int64("native", native),
		zap.Int64("max", maxVolume))
	args := channelArgs()
	args["DesiredVolume"] = strconv.FormatInt(native, 10)
	if _, err := p.call(ctx, r, "set_volume", dlna.ServiceTypeRenderingControl, "SetVolume", args); err != nil {
		return 0, err
	}
	return native, nil
}

// GetVolume returns the current volume as a percentage.
func (p *Planner) GetVolume(ctx context.Context, r *Renderer) (int, error) {
	maxVolume, err := p.maxVolume(r, "get_volume")
	if err != nil {
		return 0, err
	}
	resp, err := p.call(ctx, r, "get_volume", dlna.ServiceTypeRenderingControl, "GetVolume", channelArgs())
	if err != nil {
		return 0, err
	}
	native, err := strconv.ParseInt(strings.TrimSpace(resp["CurrentVolume"]), 10, 64)
	if err != nil {
		return 0, newError(KindDeviceQuery, "get_volume", fmt.Sprintf("CurrentVolume %q", resp["CurrentVolume"]), err)
	}
	return NativeToPercent(native, maxVolume), nil
}

// SetMute sets the master mute.
func (p *Planner) SetMute(ctx context.Context, r *Renderer, mute bool) error {
	args := channelArgs()
	args["DesiredMute"] = "0"
	if mute {
		args["DesiredMute"] = "1"
	}
	_, err := p.call(ctx, r, "set_mute", dlna.ServiceTypeRenderingControl, "SetMute", args)
	return err
}

// GetMute reads the master mute.
func (p *Planner) GetMute(ctx context.Context, r *Renderer) (bool, error) {
	resp, err := p.call(ctx, r, "get_mute", dlna.ServiceTypeRenderingControl, "GetMute", channelArgs())
	if err != nil {
		return false, err
	}
	return parseBool(resp["CurrentMute"]), nil
}

// Play starts playback at normal speed.
func (p *Planner) Play(ctx context.Context, r *Renderer) error {
	args := instanceArgs()
	args["Speed"] = "1"
	_, err := p.call(ctx, r, "play", dlna.ServiceTypeAVTransport, "Play", args)
	return err
}

// Pause pauses playback.
func (p *Planner) Pause(ctx context.Context, r *Renderer) error {
	_, err := p.call(ctx, r, "pause", dlna.ServiceTypeAVTransport, "Pause", instanceArgs())
	return err
}

// Stop stops playback.
func (p *Planner) Stop(ctx context.Context, r *Renderer) error {
	_, err := p.call(ctx, r, "stop", dlna.ServiceTypeAVTransport, "Stop", instanceArgs())
	return err
}

// GetTransportState reads the current transport state.
func (p *Planner) GetTransportState(ctx context.Context, r *Renderer) (TransportState, error) {
	resp, err := p.call(ctx, r, "get_state", dlna.ServiceTypeAVTransport, "GetTransportInfo", instanceArgs())
	if err != nil {
		return "", err
	}
	return ParseTransportState(resp["CurrentTransportState"]), nil
}

// GetMediaInfo reads media info. Unparseable fields read as zero.
func (p *Planner) GetMediaInfo(ctx context.Context, r *Renderer) (MediaInfo, error) {
	resp, err := p.call(ctx, r, "get_media_info", dlna.ServiceTypeAVTransport, "GetMediaInfo", instanceArgs())
	if err != nil {
		return MediaInfo{}, err
	}
	nr, _ := strconv.Atoi(strings.TrimSpace(resp["NrTracks"]))
	return MediaInfo{
		NrTracks:      nr,
		MediaDuration: lenientClock(resp["MediaDuration"]),
		CurrentURI:    resp["CurrentURI"],
	}, nil
}

// GetPositionInfo reads position info. Unparseable fields read as zero.
func (p *Planner) GetPositionInfo(ctx context.Context, r *Renderer) (PositionInfo, error) {
	resp, err := p.call(ctx, r, "get_position_info", dlna.ServiceTypeAVTransport, "GetPositionInfo", instanceArgs())
	if err != nil {
		return PositionInfo{}, err
	}
	track, _ := strconv.Atoi(strings.TrimSpace(resp["Track"]))
	return PositionInfo{
		Track:         track,
		TrackDuration: lenientClock(resp["TrackDuration"]),
		RelTime:       lenientClock(resp["RelTime"]),
		AbsTime:       lenientClock(resp["AbsTime"]),
		TrackURI:      resp["TrackURI"],
	}, nil
}

func (p *Planner) trackDuration(ctx context.Context, r *Renderer, op string) (time.Duration, error) {
	resp, err := p.read(ctx, r, op, dlna.ServiceTypeAVTransport, "GetPositionInfo", instanceArgs())
	if err != nil {
		return 0, err
	}
	duration, err := ParseClock(resp["TrackDuration"])
	if err != nil {
		return 0, newError(KindDeviceQuery, op, fmt.Sprintf("TrackDuration %q unparseable", resp["TrackDuration"]), nil)
	}
	return duration, nil
}

func (p *Planner) seekTime(ctx context.Context, r *Renderer, op string, desired, duration time.Duration) (SeekResult, error) {
	target := clamp(desired, 0, duration)
	if target != desired {
		p.log().Debug("seek target clamped",
			zap.String("renderer", r.Name()),
			zap.Duration("desired", desired),
			zap.Duration("target", target),
			zap.Duration("track_duration", duration))
	}
	unit := p.SeekTimeUnit
	if unit == "" {
		unit = dlna.SeekUnitAbsTime
	}
	return p.seek(ctx, r, op, unit, FormatClock(target))
}

func (p *Planner) seek(ctx context.Context, r *Renderer, op, unit, target string) (SeekResult, error) {
	args := instanceArgs()
	args["Unit"] = unit
	args["Target"] = target
	if _, err := p.call(ctx, r, op, dlna.ServiceTypeAVTransport, "Seek", args); err != nil {
		return SeekResult{}, err
	}
	return SeekResult{Unit: unit, Target: target}, nil
}

func (p *Planner) maxVolume(r *Renderer, op string) (int64, error) {
	desc, err := r.Lookup(dlna.ServiceIDRenderingControl, "Volume")
	if err != nil {
		return 0, withOp(err, op)
	}
	maxVolume, err := desc.IntMax()
	if err != nil {
		return 0, withOp(err, op)
	}
	return maxVolume, nil
}

// read performs a precondition read; failures become DeviceQueryError.
func (p *Planner) read(ctx context.Context, r *Renderer, op, serviceType, action string, args map[string]string) (map[string]string, error) {
	resp, err := p.invoke(ctx, r, serviceType, action, args)
	if err != nil {
		return nil, newError(KindDeviceQuery, op, action, err)
	}
	return resp, nil
}

// call performs the command's own action; failures become TransportError.
func (p *Planner) call(ctx context.Context, r *Renderer, op, serviceType, action string, args map[string]string) (map[string]string, error) {
	resp, err := p.invoke(ctx, r, serviceType, action, args)
	if err != nil {
		return nil, newError(KindTransport, op, action, err)
	}
	return resp, nil
}

func (p *Planner) invoke(ctx context.Context, r *Renderer, serviceType, action string, args map[string]string) (map[string]string, error) {
	if p.Invoker == nil {
		return nil, fmt.Errorf("no invoker configured")
	}
	p.log().Debug("invoke action",
		zap.String("renderer", r.Name()),
		zap.String("service", serviceType),
		zap.String("action", action),
		zap.Any("args", args))
	resp, err := p.Invoker.InvokeAction(ctx, r.Device, serviceType, action, args)
	if err != nil {
		p.log().Debug("action failed",
			zap.String("renderer", r.Name()),
			zap.String("action", action),
			zap.Error(err))
		return nil, err
	}
	if resp == nil {
		resp = map[string]string{}
	}
	return resp, nil
}

func instanceArgs() map[string]string {
	return map[string]string{"InstanceID": dlna.InstanceID}
}

func channelArgs() map[string]string {
	return map[string]string{"InstanceID": dlna.InstanceID, "Channel": dlna.ChannelMaster}
}

func lenientClock(raw string) time.Duration {
	d, err := ParseClock(raw)
	if err != nil {
		return 0
	}
	return d
}

func parseBool(raw string) bool {
	v := strings.TrimSpace(raw)
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
}

func withOp(err error, op string) error {
	if e, ok := err.(*Error); ok && e.Op == "" {
		cp := *e
		cp.Op = op
		return &cp
	}
	return err
}
