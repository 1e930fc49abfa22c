package cli

import (
	"github.com/spf13/cobra"

	"tasklist/internal/model"
)

func newThemeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the light/dark theme preference",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openStores(cmd.Context(), app, true); err != nil {
				return writeErr(cmd, err)
			}
			return writeTheme(cmd, app)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openStores(cmd.Context(), app, true); err != nil {
				return writeErr(cmd, err)
			}
			app.theme.Toggle()
			return writeTheme(cmd, app)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <light|dark>",
		Short:     "Set the theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.ThemeLight), string(model.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := model.ParseThemeMode(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := openStores(cmd.Context(), app, true); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.theme.Set(mode); err != nil {
				return writeErr(cmd, err)
			}
			return writeTheme(cmd, app)
		},
	})

	return cmd
}

func writeTheme(cmd *cobra.Command, app *App) error {
	return writeOut(cmd, app, map[string]any{"data": map[string]any{"mode": app.theme.Mode()}})
}
