package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/toolforge-dev/toolforge/domain/entities"
	"github.com/toolforge-dev/toolforge/operations"
)

// listedOperation is the yaml/json form of an operation descriptor.
type listedOperation struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	InputSchema map[string]any `json:"inputSchema" yaml:"inputSchema"`
}

func newListCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List operations and their input schemas",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newAppWithSettings(root, entities.DefaultSettings(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := renderOperations(a.registry.Describe(), format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml or json)")
	return cmd
}

func renderOperations(descriptors []operations.Descriptor, format string) ([]byte, error) {
	listed := make([]listedOperation, 0, len(descriptors))
	for _, d := range descriptors {
		op := listedOperation{Name: d.Name, Description: d.Description}
		if len(d.InputSchema) > 0 {
			if err := json.Unmarshal(d.InputSchema, &op.InputSchema); err != nil {
				return nil, fmt.Errorf("schema of %s: %w", d.Name, err)
			}
		}
		listed = append(listed, op)
	}

	switch format {
	case "yaml", "yml":
		return yaml.Marshal(listed)
	case "json":
		b, err := json.MarshalIndent(listed, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (use yaml or json)", format)
	}
}
