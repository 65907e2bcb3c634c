package output

import (
	"io"
	"os"
	"time"

	"github.com/mikey-austin/dlnactl/internal/core"
)

// Printer renders command results.
type Printer interface {
	Print(v any) error
}

// New returns the JSON printer when asJSON is set, else the human printer.
// A nil writer means stdout.
func New(w io.Writer, asJSON bool) Printer {
	if w == nil {
		w = os.Stdout
	}
	if asJSON {
		return JSONPrinter{Out: w}
	}
	return HumanPrinter{Out: w}
}

type rendererView struct {
	Index        int      `json:"index"`
	UDN          string   `json:"udn"`
	Name         string   `json:"name"`
	DeviceType   string   `json:"deviceType"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	ModelName    string   `json:"modelName,omitempty"`
	Location     string   `json:"location"`
	Services     []string `json:"services"`
}

type mediaView struct {
	NrTracks      int    `json:"nrTracks"`
	MediaDuration string `json:"mediaDuration"`
	CurrentURI    string `json:"currentURI,omitempty"`
}

type positionView struct {
	Track         int    `json:"track"`
	TrackDuration string `json:"trackDuration"`
	RelTime       string `json:"relTime"`
	AbsTime       string `json:"absTime"`
	TrackURI      string `json:"trackURI,omitempty"`
}

type statusView struct {
	Renderer string       `json:"renderer"`
	State    string       `json:"state"`
	Media    mediaView    `json:"media"`
	Position positionView `json:"position"`
}

type commandView struct {
	Name    string `json:"name"`
	Usage   string `json:"usage"`
	Summary string `json:"summary"`
}

func renderersView(result core.RenderersResult) []rendererView {
	out := make([]rendererView, 0, len(result.Renderers))
	for i, r := range result.Renderers {
		services := make([]string, 0, len(r.Device.Services))
		for _, svc := range r.Device.Services {
			services = append(services, svc.ServiceID)
		}
		out = append(out, rendererView{
			Index:        i + 1,
			UDN:          r.UDN(),
			Name:         r.Name(),
			DeviceType:   r.Device.DeviceType,
			Manufacturer: r.Device.Manufacturer,
			ModelName:    r.Device.ModelName,
			Location:     r.Device.Location,
			Services:     services,
		})
	}
	return out
}

func newMediaView(m core.MediaInfo) mediaView {
	return mediaView{NrTracks: m.NrTracks, MediaDuration: clock(m.MediaDuration), CurrentURI: m.CurrentURI}
}

func newPositionView(p core.PositionInfo) positionView {
	return positionView{
		Track:         p.Track,
		TrackDuration: clock(p.TrackDuration),
		RelTime:       clock(p.RelTime),
		AbsTime:       clock(p.AbsTime),
		TrackURI:      p.TrackURI,
	}
}

func commandsView(cmds []core.Command) []commandView {
	out := make([]commandView, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, commandView{Name: c.Name, Usage: c.Usage(), Summary: c.Summary})
	}
	return out
}

func clock(d time.Duration) string {
	return core.FormatClock(d)
}
