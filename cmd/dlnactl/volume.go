package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mikey-austin/dlnactl/internal/core"
)

const volumeLong = `Show or set volume in percent.

A single numeric argument is a volume, not a renderer index. Use -r 2 or
"vol 2 <value>" to address renderer 2.`

const muteLong = `Show or set mute.

A single 0 or 1 argument is a mute value, not a renderer index. Use -r 1 to
address renderer 1.`

func volumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "vol [renderer] [<0..100>]",
		Short: "Show or set volume in percent",
		Long:  volumeLong,
		Args:  rangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			ctx, cancel := app.context(cmd)
			defer cancel()

			selector, value := splitValueArgs(args, app.renderer, looksLikeVolume)

			name, raw := "get_volume", []string(nil)
			if value != "" {
				name, raw = "set_volume", []string{value}
			}
			result, err := app.service.Run(ctx, selector, name, raw)
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
}

func muteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mute [renderer] [on|off]",
		Short: "Show or set mute",
		Long:  muteLong,
		Args:  rangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			ctx, cancel := app.context(cmd)
			defer cancel()

			selector, value := splitValueArgs(args, app.renderer, looksLikeToggle)
			if value != "" && !looksLikeToggle(value) {
				return core.Errorf(core.KindInvalidArgument, "mute", "expected on or off, got %q", value)
			}

			name, raw := "get_mute", []string(nil)
			if value != "" {
				name, raw = "set_mute", []string{value}
			}
			result, err := app.service.Run(ctx, selector, name, raw)
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
}

// splitValueArgs splits "[renderer] [value]". A lone argument that looks like
// a value is taken as one, so numeric renderer indexes need -r or both args.
func splitValueArgs(args []string, renderer string, isValue func(string) bool) (string, string) {
	switch len(args) {
	case 1:
		if isValue(args[0]) {
			return renderer, args[0]
		}
		return args[0], ""
	case 2:
		return args[0], args[1]
	}
	return renderer, ""
}

func looksLikeVolume(arg string) bool {
	arg = strings.TrimSuffix(strings.TrimSpace(arg), "%")
	if arg == "" {
		return false
	}
	for i := 0; i < len(arg); i++ {
		if (arg[i] < '0' || arg[i] > '9') && arg[i] != '.' {
			return false
		}
	}
	return true
}

func looksLikeToggle(arg string) bool {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "on", "off", "yes", "no", "true", "false", "1", "0":
		return true
	}
	return false
}
