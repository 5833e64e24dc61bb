package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/clashkit/clashkit/internal/coreconf"
)

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set key=value [key=value ...]",
		Short: "Patch scalar config keys, re-guard and save",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := coreconf.NewMapping()
			for _, arg := range args {
				key, raw, ok := strings.Cut(arg, "=")
				key = strings.TrimSpace(key)
				if !ok || key == "" {
					return fmt.Errorf("argument %q is not key=value", arg)
				}
				node, err := parseScalar(raw)
				if err != nil {
					return fmt.Errorf("value for %q: %w", key, err)
				}
				patch.SetNode(key, node)
			}
			cfg := openGuard()
			cfg.Patch(patch)
			cfg.Normalize()
			return cfg.Save()
		},
	}
}

// parseScalar interprets raw the way a YAML document would, so "7890" stays
// a number and "true" stays a bool. An empty value clears the key to null.
func parseScalar(raw string) (*yaml.Node, error) {
	if strings.TrimSpace(raw) == "" {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("%q is not a single value", raw)
	}
	n := doc.Content[0]
	if n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("%q is not a scalar", raw)
	}
	return n, nil
}
