package main

import (
	"github.com/spf13/cobra"
)

func lsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List renderers",
		Args:  rangeArgs(0, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			ctx, cancel := app.context(cmd)
			defer cancel()

			result, err := app.service.Renderers(ctx)
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
}

func statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status [renderer]",
		Short: "Show transport state, media and position",
		Args:  rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			ctx, cancel := app.context(cmd)
			defer cancel()

			result, err := app.service.Status(ctx, app.selector(args))
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
}
