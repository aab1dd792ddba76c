package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toolforge-dev/toolforge/infrastructure/stdio"
)

type runOptions struct {
	args    []string
	payload string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <operation>",
		Short: "Run one operation and print its report",
		Long: `Run one operation and print its report to stdout.

Arguments are given as --arg key=value pairs or as a JSON object with --payload.
The exit status is 1 when the operation was not successful.

Examples:
  toolforge run execute_dotnet_command --arg command="build -c Release"
  toolforge run compile_delphi_dpr --arg dprPath=C:\src\App.dpr --arg architecture=Win64
  toolforge run build_project --payload '{"projectPath":"app.sln"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := opts.buildPayload()
			if err != nil {
				return err
			}

			a, err := newApp(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.registry.Has(args[0]) {
				return fmt.Errorf("unknown operation %q (see toolforge list)", args[0])
			}

			text, isError := stdio.Render(a.registry.Invoke(cmd.Context(), args[0], payload))
			fmt.Fprint(cmd.OutOrStdout(), text)
			if isError {
				return errUnsuccessful
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&opts.args, "arg", "a", nil, "operation argument as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.payload, "payload", "", "operation arguments as a JSON object")
	cmd.MarkFlagsMutuallyExclusive("arg", "payload")
	return cmd
}

func (o *runOptions) buildPayload() ([]byte, error) {
	if o.payload != "" {
		if !json.Valid([]byte(o.payload)) {
			return nil, fmt.Errorf("--payload is not valid JSON")
		}
		return []byte(o.payload), nil
	}

	values := make(map[string]string, len(o.args))
	for _, kv := range o.args {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid --arg %q: expected key=value", kv)
		}
		values[strings.TrimSpace(key)] = value
	}
	return json.Marshal(values)
}
