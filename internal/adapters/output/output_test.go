package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey-austin/dlnactl/internal/core"
	"github.com/mikey-austin/dlnactl/pkg/dlna"
)

func sampleRenderers() core.RenderersResult {
	devs := []dlna.Device{{
		UDN:          "uuid:one",
		FriendlyName: "Living Room",
		Manufacturer: "Acme",
		ModelName:    "Streamer",
		Location:     "http://10.0.0.2/desc.xml",
		Services: []dlna.Service{
			{ServiceID: dlna.ServiceIDAVTransport},
			{ServiceID: dlna.ServiceIDRenderingControl},
		},
	}}
	return core.RenderersResult{Renderers: core.SelectRenderers(devs, "", nil)}
}

func sampleStatus() core.StatusResult {
	return core.StatusResult{
		Renderer: "Living Room",
		State:    core.StatePlaying,
		Media:    core.MediaInfo{NrTracks: 12},
		Position: core.PositionInfo{Track: 3, TrackDuration: 250 * time.Second, RelTime: time.Minute},
	}
}

func TestHumanPrinter(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var buf bytes.Buffer
	p := HumanPrinter{Out: &buf}

	require.NoError(t, p.Print(sampleRenderers()))
	assert.Contains(t, buf.String(), "Living Room")
	assert.Contains(t, buf.String(), "Acme Streamer")
	assert.Contains(t, buf.String(), "uuid:one")

	buf.Reset()
	require.NoError(t, p.Print(sampleStatus()))
	assert.Equal(t, "Living Room  [PLAYING]  track 3/12  0:01:00 / 0:04:10\n", buf.String())

	buf.Reset()
	require.NoError(t, p.Print(core.VolumeResult{Renderer: "Den", Percent: 35}))
	assert.Equal(t, "Den  vol 35%\n", buf.String())

	buf.Reset()
	require.NoError(t, p.Print(core.MuteResult{Renderer: "Den", Muted: true}))
	assert.Equal(t, "Den  muted\n", buf.String())

	buf.Reset()
	require.NoError(t, p.Print(core.SeekResult{Unit: "TRACK_NR", Target: "2"}))
	assert.Equal(t, "seek TRACK_NR 2\n", buf.String())

	buf.Reset()
	require.NoError(t, p.Print(nil))
	assert.Equal(t, "ok\n", buf.String())

	buf.Reset()
	require.NoError(t, p.Print(core.RenderersResult{}))
	assert.Equal(t, "no renderers found\n", buf.String())
}

func TestHumanPrinterCommands(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	cmd, err := core.Lookup("seek_abs")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, HumanPrinter{Out: &buf}.Print([]core.Command{cmd}))
	assert.Contains(t, buf.String(), "seek_abs <time:string>")
}

func TestJSONPrinterViews(t *testing.T) {
	var buf bytes.Buffer
	p := JSONPrinter{Out: &buf}

	require.NoError(t, p.Print(sampleRenderers()))
	var renderers []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &renderers))
	require.Len(t, renderers, 1)
	assert.Equal(t, float64(1), renderers[0]["index"])
	assert.Equal(t, "uuid:one", renderers[0]["udn"])
	assert.Len(t, renderers[0]["services"], 2)

	buf.Reset()
	require.NoError(t, p.Print(sampleStatus()))
	var status map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &status))
	assert.Equal(t, "PLAYING", status["state"])
	pos := status["position"].(map[string]any)
	assert.Equal(t, "0:04:10", pos["trackDuration"])
	assert.Equal(t, "0:01:00", pos["relTime"])

	buf.Reset()
	require.NoError(t, p.Print(core.VolumeResult{Renderer: "Den", Percent: 35}))
	assert.JSONEq(t, `{"renderer":"Den","percent":35}`, buf.String())

	buf.Reset()
	require.NoError(t, p.Print(nil))
	assert.JSONEq(t, `{"ok":true}`, buf.String())

	buf.Reset()
	require.NoError(t, p.Print(core.RawResult{Data: json.RawMessage(`{"a":1}`)}))
	assert.JSONEq(t, `{"a":1}`, buf.String())
}

func TestNewSelectsPrinter(t *testing.T) {
	assert.IsType(t, JSONPrinter{}, New(nil, true))
	assert.IsType(t, HumanPrinter{}, New(nil, false))
}
