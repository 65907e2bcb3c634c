package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mikey-austin/dlnactl/internal/core"
)

// JSONPrinter prints JSON.
type JSONPrinter struct {
	Out io.Writer
}

// Print renders JSON output.
func (p JSONPrinter) Print(v any) error {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	payload, err := json.MarshalIndent(jsonValue(v), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(payload))
	return err
}

func jsonValue(v any) any {
	switch data := v.(type) {
	case nil:
		return map[string]bool{"ok": true}
	case core.RenderersResult:
		return renderersView(data)
	case core.StatusResult:
		return statusView{
			Renderer: data.Renderer,
			State:    string(data.State),
			Media:    newMediaView(data.Media),
			Position: newPositionView(data.Position),
		}
	case core.TransportState:
		return map[string]string{"state": string(data)}
	case core.MediaInfo:
		return newMediaView(data)
	case core.PositionInfo:
		return newPositionView(data)
	case []core.Command:
		return commandsView(data)
	case core.RawResult:
		if raw, err := rawBytes(data.Data); err == nil {
			return json.RawMessage(raw)
		}
		return data.Data
	default:
		return v
	}
}
