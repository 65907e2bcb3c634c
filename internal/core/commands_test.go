package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTableNames(t *testing.T) {
	want := []string{
		"get_media_info", "get_mute", "get_position_info", "get_state", "get_volume",
		"next_media", "next_track", "pause", "play", "previous_media", "previous_track",
		"seek_abs", "seek_percent", "seek_track", "set_media", "set_mute", "set_next_media",
		"set_volume", "stop",
	}
	assert.Equal(t, want, CommandNames())
	for name, cmd := range Commands() {
		assert.Equal(t, name, cmd.Name)
		assert.NotNil(t, cmd.Run, name)
	}
}

func TestCommandsReturnsCopy(t *testing.T) {
	table := Commands()
	delete(table, "play")
	_, err := Lookup("play")
	assert.NoError(t, err)
}

func TestLookupIsExact(t *testing.T) {
	for _, name := range []string{"PLAY", "seek", " play", "volume"} {
		_, err := Lookup(name)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrUnknownCommand)
	}
}

func TestNotImplementedCommandsTouchNothing(t *testing.T) {
	for _, name := range []string{"next_media", "previous_media", "set_media", "set_next_media"} {
		inv := &fakeInvoker{}
		_, err := Execute(context.Background(), NewPlanner(inv, nil), testRenderer("100"), name, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotImplemented)
		assert.Equal(t, ExitNotImplemented, ExitCode(err))
		assert.Empty(t, inv.calls, name)
	}
}

func TestNotImplementedCommandsIgnoreArguments(t *testing.T) {
	inv := &fakeInvoker{}
	_, err := Execute(context.Background(), NewPlanner(inv, nil), testRenderer("100"), "next_media", []string{"x"})
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.NotErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, inv.calls)
}

func TestExecuteUnknownCommand(t *testing.T) {
	inv := &fakeInvoker{}
	_, err := Execute(context.Background(), NewPlanner(inv, nil), testRenderer("100"), "rewind", nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Empty(t, inv.calls)
}

func TestParseArgs(t *testing.T) {
	cmd, err := Lookup("seek_track")
	require.NoError(t, err)
	args, err := cmd.ParseArgs([]string{"+3"})
	require.NoError(t, err)
	assert.Equal(t, 3, args.Int("track"))

	cmd, _ = Lookup("set_volume")
	args, err = cmd.ParseArgs([]string{"45%"})
	require.NoError(t, err)
	assert.InDelta(t, 45.0, args.Float("percent"), 1e-9)

	cmd, _ = Lookup("set_mute")
	for raw, want := range map[string]bool{"on": true, "off": false, "1": true, "false": false, "YES": true} {
		args, err = cmd.ParseArgs([]string{raw})
		require.NoError(t, err, raw)
		assert.Equal(t, want, args.Bool("mute"), raw)
	}
}

func TestParseArgsErrors(t *testing.T) {
	cmd, _ := Lookup("seek_track")
	_, err := cmd.ParseArgs(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = cmd.ParseArgs([]string{"two"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "track")

	cmd, _ = Lookup("play")
	_, err = cmd.ParseArgs([]string{"extra"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestUsage(t *testing.T) {
	cmd, _ := Lookup("seek_abs")
	assert.Equal(t, "seek_abs <time:string>", cmd.Usage())
	cmd, _ = Lookup("stop")
	assert.Equal(t, "stop", cmd.Usage())
}

func TestExecuteRoutesToPlanner(t *testing.T) {
	inv := &fakeInvoker{responses: map[string]map[string]string{
		"GetVolume":       {"CurrentVolume": "25"},
		"GetPositionInfo": {"Track": "4"},
		"GetMediaInfo":    {"NrTracks": "4"},
	}}
	p := NewPlanner(inv, nil)
	r := testRenderer("50")
	ctx := context.Background()

	out, err := Execute(ctx, p, r, "get_volume", nil)
	require.NoError(t, err)
	assert.Equal(t, VolumeResult{Renderer: "Living Room", Percent: 50}, out)

	out, err = Execute(ctx, p, r, "set_volume", []string{"100"})
	require.NoError(t, err)
	assert.Equal(t, VolumeSetResult{Renderer: "Living Room", Native: 50}, out)

	out, err = Execute(ctx, p, r, "next_track", nil)
	require.NoError(t, err)
	assert.Equal(t, SeekResult{Unit: "TRACK_NR", Target: "4"}, out)

	out, err = Execute(ctx, p, r, "set_mute", []string{"on"})
	require.NoError(t, err)
	assert.Equal(t, MuteResult{Renderer: "Living Room", Muted: true}, out)
	assert.Equal(t, "1", inv.last().Args["DesiredMute"])

	_, err = Execute(ctx, p, r, "play", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"InstanceID": "0", "Speed": "1"}, inv.last().Args)
}
