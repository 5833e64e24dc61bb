package cli

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective controller endpoint and guarded fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := openGuard()
			info := cfg.ClientInfo()
			// The guarded fields are always displayable; a malformed nested
			// section only costs the typed rows.
			schema, err := cfg.Schema()
			if err != nil {
				log.Printf("decode typed config view: %v", err)
			}

			key := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				key = lipgloss.NewStyle()
			}
			out := cmd.OutOrStdout()
			row := func(name, value string) {
				_, _ = fmt.Fprintf(out, "%s %s\n", key.Render(name+":"), value)
			}

			row("mixed-port", strconv.Itoa(int(info.Port)))
			row("controller", info.Server)
			secret := "(none)"
			if info.Secret != nil {
				secret = *info.Secret
			}
			row("secret", secret)
			if schema.Mode != nil {
				row("mode", *schema.Mode)
			}
			if schema.LogLevel != nil {
				row("log-level", *schema.LogLevel)
			}
			if schema.AllowLan != nil {
				row("allow-lan", strconv.FormatBool(*schema.AllowLan))
			}
			if schema.IPv6 != nil {
				row("ipv6", strconv.FormatBool(*schema.IPv6))
			}
			row("tun-device-ip", cfg.TunDeviceIP())
			return nil
		},
	}
}
