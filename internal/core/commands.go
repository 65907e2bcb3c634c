package core

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParamKind is the declared type of a command parameter.
type ParamKind int

const (
	ParamString ParamKind = iota
	ParamInt
	ParamFloat
	ParamBool
)

func (k ParamKind) String() string {
	switch k {
	case ParamInt:
		return "int"
	case ParamFloat:
		return "number"
	case ParamBool:
		return "bool"
	default:
		return "string"
	}
}

// Param declares one positional command parameter.
type Param struct {
	Name string
	Kind ParamKind
}

// Args holds parsed parameters by name.
type Args map[string]any

// String returns a string parameter.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Int returns an int parameter.
func (a Args) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

// Float returns a float parameter.
func (a Args) Float(name string) float64 {
	v, _ := a[name].(float64)
	return v
}

// Bool returns a bool parameter.
func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// RunFunc executes a command against a renderer.
type RunFunc func(ctx context.Context, p *Planner, r *Renderer, args Args) (any, error)

// Command is one entry of the command table.
type Command struct {
	Name    string
	Summary string
	Params  []Param
	Run     RunFunc
	// Stub commands ignore their arguments and always fail with
	// NotImplementedError.
	Stub bool
}

// Usage renders the command with its parameters.
func (c Command) Usage() string {
	var b strings.Builder
	b.WriteString(c.Name)
	for _, p := range c.Params {
		fmt.Fprintf(&b, " <%s:%s>", p.Name, p.Kind)
	}
	return b.String()
}

// ParseArgs converts positional strings according to the declared params.
func (c Command) ParseArgs(raw []string) (Args, error) {
	if len(raw) != len(c.Params) {
		return nil, newError(KindInvalidArgument, c.Name, fmt.Sprintf("expected %d argument(s), got %d (usage: %s)", len(c.Params), len(raw), c.Usage()), nil)
	}
	args := make(Args, len(c.Params))
	for i, p := range c.Params {
		v, err := parseParam(p, raw[i])
		if err != nil {
			return nil, newError(KindInvalidArgument, c.Name, fmt.Sprintf("%s: %q is not a valid %s", p.Name, raw[i], p.Kind), nil)
		}
		args[p.Name] = v
	}
	return args, nil
}

func parseParam(p Param, raw string) (any, error) {
	s := strings.TrimSpace(raw)
	switch p.Kind {
	case ParamInt:
		return strconv.Atoi(strings.TrimPrefix(s, "+"))
	case ParamFloat:
		return strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	case ParamBool:
		switch strings.ToLower(s) {
		case "on", "yes":
			return true, nil
		case "off", "no":
			return false, nil
		}
		return strconv.ParseBool(s)
	default:
		return s, nil
	}
}

var commandTable = map[string]Command{
	"play": {
		Name: "play", Summary: "start playback",
		Run: func(ctx context.Context, p *Planner, r *Renderer, _ Args) (any, error) {
			return nil, p.Play(ctx, r)
		},
	},
	"pause": {
		Name: "pause", Summary: "pause playback",
		Run: func(ctx context.Context, p *Planner, r *Renderer, _ Args) (any, error) {
			return nil, p.Pause(ctx, r)
		},
	},
	"stop": {
		Name: "stop", Summary: "stop playback",
		Run: func(ctx context.Context, p *Planner, r *Renderer, _ Args) (any, error) {
			return nil, p.Stop(ctx, r)
		},
	},
	"seek_abs": {
		Name: "seek_abs", Summary: "seek to H:MM:SS, clamped to the track duration",
		Params: []Param{{Name: "time", Kind: ParamString}},
		Run: func(ctx context.Context, p *Planner, r *Renderer, a Args) (any, error) {
			return p.SeekAbsolute(ctx, r, a.String("time"))
		},
	},
	"seek_percent": {
		Name: "seek_percent", Summary: "seek to a percentage of the track",
		Params: []Param{{Name: "percent", Kind: ParamFloat}},
		Run: func(ctx context.Context, p *Planner, r *Renderer, a Args) (any, error) {
			return p.SeekPercent(ctx, r, a.Float("percent"))
		},
	},
	"seek_track": {
		Name: "seek_track", Summary: "seek to a 1-based track number",
		Params: []Param{{Name: "track", Kind: ParamInt}},
		Run: func(ctx context.Context, p *Planner, r *Renderer, a Args) (any, error) {
			return p.SeekTrack(ctx, r, a.Int("track"))
		},
	},
	"next_track": {
		Name: "next_track", Summary: "skip to the next track",
		Run: func(ctx context.Context, p *Planner, r *Renderer, _ Args) (any, error) {
			return p.SeekTrackRelative(ctx, r, 1)
		},
	},
	"previous_track": {
		Name: "previous_track", Summary: "skip to the previous track",
		Run: func(ctx context.Context, p *Planner, r *Renderer, _ Args) (any, error) {
			return p.SeekTrackRelative(ctx, r, -1)
		},
	},
	"set_mute": {
		Name: "set_mute", Summary: "mute or unmute",
		Params: []Param{{Name: "mute", Kind: ParamBool}},
		Run: func(ctx context.Context, p *Planner, r *Renderer, a Args) (any, error) {
			if err := p.SetMute(ctx, r, a.Bool("mute")); err != nil {
				return nil, err
			}
			return MuteResult{Renderer: r.Name(), Muted: a.Bool("mute")}, nil
		},
	},
	"get_mute": {
		Name: "get_mute", Summary: "read mute state",
		Run: func(ctx context.Context, p *Planner, r *Renderer, _ Args) (any, error) {
			muted, err := p.GetMute(ctx, r)
			if err != nil {
				return nil, err
			}
			return MuteResult{Renderer: r.Name(), Muted: muted}, nil
		},
	},
	"set_volume": {
		Name: "set_volume", Summary: "set volume in percent",
		Params: []Param{{Name: "percent", Kind: ParamFloat}},
		Run: func(ctx context.Context, p *Planner, r *Renderer, a Args) (any, error) {
			native, err := p.SetVolume(ctx, r, a.Float("percent"))
			if err != nil {
				return nil, err
			}
			return VolumeSetResult{Renderer: r.Name(), Native: native}, nil
		},
	},
	"get_volume": {
		Name: "get_volume", Summary: "read volume in percent",
		Run: func(ctx context.Context, p *Planner, r *Renderer, _ Args) (any, error) {
			pct, err := p.GetVolume(ctx, r)
			if err != nil {
				return nil, err
			}
			return VolumeResult{Renderer: r.Name(), Percent: pct}, nil
		},
	},
	"get_state": {
		Name: "get_state", Summary: "read transport state",
		Run: func(ctx context.Context, p *Planner, r *Renderer, _ Args) (any, error) {
			return p.GetTransportState(ctx, r)
		},
	},
	"get_media_info": {
		Name: "get_media_info", Summary: "read media info",
		Run: func(ctx context.Context, p *Planner, r *Renderer, _ Args) (any, error) {
			return p.GetMediaInfo(ctx, r)
		},
	},
	"get_position_info": {
		Name: "get_position_info", Summary: "read position info",
		Run: func(ctx context.Context, p *Planner, r *Renderer, _ Args) (any, error) {
			return p.GetPositionInfo(ctx, r)
		},
	},
	"next_media":     notImplemented("next_media"),
	"previous_media": notImplemented("previous_media"),
	"set_media":      notImplemented("set_media"),
	"set_next_media": notImplemented("set_next_media"),
}

func notImplemented(name string) Command {
	return Command{
		Name:    name,
		Summary: "not implemented",
		Stub:    true,
		Run: func(context.Context, *Planner, *Renderer, Args) (any, error) {
			return nil, newError(KindNotImplemented, name, "playlist mutation is not supported", nil)
		},
	}
}

// Commands returns a copy of the command table.
func Commands() map[string]Command {
	out := make(map[string]Command, len(commandTable))
	for k, v := range commandTable {
		out[k] = v
	}
	return out
}

// CommandNames returns the table's names sorted.
func CommandNames() []string {
	names := make([]string, 0, len(commandTable))
	for name := range commandTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the command with exactly this name.
func Lookup(name string) (Command, error) {
	cmd, ok := commandTable[name]
	if !ok {
		return Command{}, newError(KindUnknownCommand, name, "unknown command", nil)
	}
	return cmd, nil
}

// Execute looks up, parses and runs a command.
func Execute(ctx context.Context, p *Planner, r *Renderer, name string, raw []string) (any, error) {
	cmd, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if cmd.Stub {
		return cmd.Run(ctx, p, r, nil)
	}
	args, err := cmd.ParseArgs(raw)
	if err != nil {
		return nil, err
	}
	return cmd.Run(ctx, p, r, args)
}
