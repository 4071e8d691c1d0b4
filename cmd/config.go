package cmd

import (
	"fmt"

	configadapter "github.com/bnema/tpx/internal/adapters/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialise settings",
	}

	cmd.AddCommand(
		newConfigPathCmd(app),
		newConfigInitCmd(app),
		newConfigShowCmd(app),
	)

	return cmd
}

func newConfigPathCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings and message file locations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), app.store.SettingsPath())
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), app.store.MessagesPath())
			return nil
		},
	}
}

func newConfigInitCmd(app *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write default settings.toml and messages.yml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			written, err := app.store.WriteDefaults(force)
			if err != nil {
				return fmt.Errorf("write default settings: %w", err)
			}

			if len(written) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Settings already present in %s (use --force to overwrite)\n", app.store.Dir())
				return nil
			}
			for _, path := range written {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

func newConfigShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := app.store.Settings()
			data, err := configadapter.EncodeSettings(settings)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# messages: %d templates\n", len(settings.Messages))
			return nil
		},
	}
}
