package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "port",
		Short: "Resolve external controller port conflicts and save the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := openGuard()
			before := cfg.ClientInfo().Server
			if err := cfg.PrepareExternalControllerPort(); err != nil {
				return err
			}
			after := cfg.ClientInfo().Server
			if after == before {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "controller %s (unchanged)\n", after)
				return nil
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "controller moved to %s\n", after)
			return nil
		},
	}
}
