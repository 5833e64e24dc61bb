// Package cli implements the clashkit command surface.
package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/clashkit/clashkit/internal/coreconf"
	"github.com/clashkit/clashkit/internal/dirs"
	"github.com/clashkit/clashkit/internal/settings"
	"github.com/clashkit/clashkit/internal/yamlx"
)

func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "clashkit",
		Short:         "Guard and normalize the proxy core config",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newShowCmd(),
		newNormalizeCmd(),
		newSetCmd(),
		newPortCmd(),
		newStrategyCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)
	return cmd
}

// openGuard builds the config guard over the disk-backed collaborators.
func openGuard() *coreconf.CoreConfig {
	return coreconf.New(yamlx.FileStore{}, loadSettings())
}

func loadSettings() *settings.Settings {
	path, err := dirs.SettingsPath()
	if err != nil {
		log.Printf("locate settings: %v (using defaults)", err)
		return settings.Default()
	}
	s, err := settings.Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("load settings: %v (using defaults)", err)
		}
		return settings.Default()
	}
	return s
}
