package core

import (
	"strings"
	"time"
)

// TransportState is the device-owned transport state.
type TransportState string

const (
	StateStopped        TransportState = "STOPPED"
	StatePlaying        TransportState = "PLAYING"
	StatePaused         TransportState = "PAUSED"
	StateTransitioning  TransportState = "TRANSITIONING"
	StateNoMediaPresent TransportState = "NO_MEDIA_PRESENT"
)

// ParseTransportState normalizes the paused variants and passes any other
// value through unchanged.
func ParseTransportState(raw string) TransportState {
	v := strings.ToUpper(strings.TrimSpace(raw))
	switch v {
	case "PAUSED_PLAYBACK", "PAUSED_RECORDING", "PAUSED":
		return StatePaused
	default:
		return TransportState(v)
	}
}

// MediaInfo is the live GetMediaInfo reading. MediaDuration covers the whole
// media; the current track's duration is PositionInfo.TrackDuration.
type MediaInfo struct {
	NrTracks      int           `json:"nrTracks"`
	MediaDuration time.Duration `json:"mediaDuration"`
	CurrentURI    string        `json:"currentURI,omitempty"`
}

// PositionInfo is the live GetPositionInfo reading.
type PositionInfo struct {
	Track         int           `json:"track"`
	TrackDuration time.Duration `json:"trackDuration"`
	RelTime       time.Duration `json:"relTime"`
	AbsTime       time.Duration `json:"absTime"`
	TrackURI      string        `json:"trackURI,omitempty"`
}

// RenderersResult lists selected renderers.
type RenderersResult struct {
	Renderers []*Renderer
}

// StatusResult combines the three status reads.
type StatusResult struct {
	Renderer string
	State    TransportState
	Media    MediaInfo
	Position PositionInfo
}

// VolumeResult reports a normalized volume.
type VolumeResult struct {
	Renderer string `json:"renderer"`
	Percent  int    `json:"percent"`
}

// VolumeSetResult reports the native volume sent to the device.
type VolumeSetResult struct {
	Renderer string `json:"renderer"`
	Native   int64  `json:"native"`
}

// MuteResult reports mute state.
type MuteResult struct {
	Renderer string `json:"renderer"`
	Muted    bool   `json:"muted"`
}

// RawResult holds arbitrary data for output.
type RawResult struct {
	Data any
}
