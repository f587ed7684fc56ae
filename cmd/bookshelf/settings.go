package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/bookshelf-store-go/preferences"
)

const (
	msgTheme = "Theme: %s\n"
	msgDebug = "Debug: %t\n"
)

func newThemeCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Set the color theme, or toggle it without an argument",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(preferences.ThemeLight), string(preferences.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var theme preferences.Theme

			if len(args) == 1 {
				theme = preferences.Theme(args[0])
				if err := app.prefs.SetTheme(ctx, theme); err != nil {
					return err
				}
			} else {
				toggled, err := app.prefs.ToggleTheme(ctx)
				if err != nil {
					return err
				}
				theme = toggled
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), msgTheme, theme)

			return err
		},
	}
}

func newDebugCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Toggle debug logging for all following commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enabled, err := app.prefs.ToggleDebug(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), msgDebug, enabled)

			return err
		},
	}
}
