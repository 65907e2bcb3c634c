package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/mikey-austin/dlnactl/internal/core"
)

// HumanPrinter prints human-readable output.
type HumanPrinter struct {
	Out io.Writer
}

// Print renders human output.
func (p HumanPrinter) Print(v any) error {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	switch data := v.(type) {
	case core.RenderersResult:
		return printRenderers(out, data)
	case core.StatusResult:
		return printStatus(out, data)
	case core.TransportState:
		_, err := fmt.Fprintln(out, string(data))
		return err
	case core.MediaInfo:
		return printTable(out, [][]string{
			{"FIELD", "VALUE"},
			{"tracks", fmt.Sprint(data.NrTracks)},
			{"duration", clock(data.MediaDuration)},
			{"uri", data.CurrentURI},
		})
	case core.PositionInfo:
		return printTable(out, [][]string{
			{"FIELD", "VALUE"},
			{"track", fmt.Sprint(data.Track)},
			{"duration", clock(data.TrackDuration)},
			{"rel_time", clock(data.RelTime)},
			{"abs_time", clock(data.AbsTime)},
			{"uri", data.TrackURI},
		})
	case core.VolumeResult:
		_, err := fmt.Fprintf(out, "%s  vol %d%%\n", data.Renderer, data.Percent)
		return err
	case core.VolumeSetResult:
		_, err := fmt.Fprintf(out, "%s  vol set (native %d)\n", data.Renderer, data.Native)
		return err
	case core.MuteResult:
		state := "unmuted"
		if data.Muted {
			state = "muted"
		}
		_, err := fmt.Fprintf(out, "%s  %s\n", data.Renderer, state)
		return err
	case core.SeekResult:
		_, err := fmt.Fprintf(out, "seek %s %s\n", data.Unit, data.Target)
		return err
	case []core.Command:
		return printCommands(out, data)
	case core.RawResult:
		return printRaw(out, data)
	default:
		_, err := fmt.Fprintln(out, "ok")
		return err
	}
}

func printRenderers(out io.Writer, result core.RenderersResult) error {
	if len(result.Renderers) == 0 {
		_, err := fmt.Fprintln(out, "no renderers found")
		return err
	}
	rows := [][]string{{"#", "NAME", "MODEL", "UDN", "LOCATION"}}
	for _, r := range renderersView(result) {
		model := strings.TrimSpace(r.Manufacturer + " " + r.ModelName)
		rows = append(rows, []string{fmt.Sprint(r.Index), r.Name, model, r.UDN, r.Location})
	}
	return printTable(out, rows)
}

func printStatus(out io.Writer, result core.StatusResult) error {
	line := fmt.Sprintf("%s  [%s]", result.Renderer, result.State)
	if result.Media.NrTracks > 0 {
		line += fmt.Sprintf("  track %d/%d", result.Position.Track, result.Media.NrTracks)
	}
	if result.Position.TrackDuration > 0 || result.Position.RelTime > 0 {
		line += fmt.Sprintf("  %s / %s", clock(result.Position.RelTime), clock(result.Position.TrackDuration))
	}
	if _, err := fmt.Fprintln(out, line); err != nil {
		return err
	}
	if uri := result.Position.TrackURI; uri != "" {
		_, err := fmt.Fprintf(out, "uri: %s\n", uri)
		return err
	}
	return nil
}

func printCommands(out io.Writer, cmds []core.Command) error {
	rows := [][]string{{"COMMAND", "USAGE", "SUMMARY"}}
	for _, c := range commandsView(cmds) {
		rows = append(rows, []string{c.Name, c.Usage, c.Summary})
	}
	return printTable(out, rows)
}

func printTable(out io.Writer, rows [][]string) error {
	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData(rows)).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, rendered)
	return err
}

func printRaw(out io.Writer, result core.RawResult) error {
	raw, err := rawBytes(result.Data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(raw))
	return err
}

func rawBytes(data any) ([]byte, error) {
	switch val := data.(type) {
	case json.RawMessage:
		return val, nil
	case []byte:
		return val, nil
	default:
		out, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}
