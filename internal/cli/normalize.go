package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clashkit/clashkit/internal/dirs"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Load the config, normalize guarded fields and save it back",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := openGuard()
			if err := cfg.Save(); err != nil {
				return err
			}
			path, err := dirs.ConfigPath()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "normalized %s\n", path)
			return nil
		},
	}
}
