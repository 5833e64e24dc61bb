package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clashkit/clashkit/internal/dirs"
	"github.com/clashkit/clashkit/internal/settings"
)

func newStrategyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategy [fixed|allow-fallback|random]",
		Short: "Show or set the controller port conflict strategy",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := loadSettings()
			if len(args) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), s.ExternalControllerPortStrategy)
				return nil
			}
			strategy, err := settings.ParseStrategy(args[0])
			if err != nil {
				return err
			}
			s.ExternalControllerPortStrategy = strategy
			path, err := dirs.SettingsPath()
			if err != nil {
				return err
			}
			return settings.Save(path, s)
		},
	}
}
