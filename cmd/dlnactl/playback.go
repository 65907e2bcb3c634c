package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mikey-austin/dlnactl/internal/core"
)

// tableCommand builds a subcommand that runs one table command with no
// parameters.
func tableCommand(use, short, name string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [renderer]",
		Short: short,
		Args:  rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			ctx, cancel := app.context(cmd)
			defer cancel()

			result, err := app.service.Run(ctx, app.selector(args), name, nil)
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
}

func playCommand() *cobra.Command  { return tableCommand("play", "Start playback", "play") }
func pauseCommand() *cobra.Command { return tableCommand("pause", "Pause playback", "pause") }
func stopCommand() *cobra.Command  { return tableCommand("stop", "Stop playback", "stop") }
func nextCommand() *cobra.Command  { return tableCommand("next", "Skip to the next track", "next_track") }
func prevCommand() *cobra.Command  { return tableCommand("prev", "Skip to the previous track", "previous_track") }

func seekCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seek [renderer] <H:MM:SS|NN%|#N>",
		Short: "Seek to a time, a percentage of the track, or a track number",
		Args:  rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			ctx, cancel := app.context(cmd)
			defer cancel()

			selector := app.renderer
			target := args[0]
			if len(args) == 2 {
				selector = args[0]
				target = args[1]
			}
			name, arg := parseSeekTarget(target)
			result, err := app.service.Run(ctx, selector, name, []string{arg})
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
}

// parseSeekTarget maps "NN%" to seek_percent, "#N" to seek_track and anything
// else to seek_abs.
func parseSeekTarget(target string) (string, string) {
	target = strings.TrimSpace(target)
	switch {
	case strings.HasSuffix(target, "%"):
		return "seek_percent", strings.TrimSuffix(target, "%")
	case strings.HasPrefix(target, "#"):
		return "seek_track", strings.TrimPrefix(target, "#")
	default:
		return "seek_abs", target
	}
}

func runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run [command [args...]]",
		Short: "Run a raw command from the command table; lists commands without arguments",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			if len(args) == 0 {
				return app.printer.Print(commandList())
			}
			ctx, cancel := app.context(cmd)
			defer cancel()

			result, err := app.service.Run(ctx, app.renderer, args[0], args[1:])
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
}

func commandList() []core.Command {
	names := core.CommandNames()
	out := make([]core.Command, 0, len(names))
	table := core.Commands()
	for _, name := range names {
		out = append(out, table[name])
	}
	return out
}
