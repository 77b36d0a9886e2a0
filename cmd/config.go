package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/taskman/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	var example bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the merged configuration and where each value came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if example {
				fmt.Fprint(out, config.ExampleConfig())
				return nil
			}

			node, err := configNode(a.cws)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "# Merged configuration")
			for _, f := range a.cws.Files {
				fmt.Fprintf(out, "# read %s\n", f)
			}
			return writeYAML(out, node)
		},
	}
	cmd.Flags().BoolVar(&example, "example", false, "Print an example config file")
	return cmd
}

// configNode renders the config as a YAML mapping with the source of each
// value as a line comment.
func configNode(cws *config.ConfigWithSources) (*yaml.Node, error) {
	var doc yaml.Node
	if err := doc.Encode(cws.Config); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i].Value
		if src, ok := cws.Sources[key]; ok {
			doc.Content[i+1].LineComment = string(src)
		}
	}
	return &doc, nil
}
