package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"importmock.dev/pkg/importmock/internal/domain"
)

var resolveParentFlag string

// resolveCmd represents the resolve command.
var resolveCmd = newResolveCmd()

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <specifier>",
		Short: "Resolve one specifier through the mock hooks",
		Long: `Resolve a specifier as if it were imported by --parent and print the
resulting address. Mocked imports resolve to a mock: address.

` + specifierHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Resolve(cmd.Context(), domain.ResolveArgs{
				HostArgs:  hostArgs(),
				Specifier: args[0],
				Parent:    parentSpecifier(resolveParentFlag),
				Trace:     viper.GetBool(traceConfigKey),
			})
		},
	}

	cmd.Flags().StringVar(&resolveParentFlag, parentFlagName, "", "importing module (default: none, as for an entry module)")

	return cmd
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func parentSpecifier(parent string) string {
	if parent == "" {
		return ""
	}

	return moduleSpecifier(parent)
}
