package cmd

import (
	"github.com/spf13/cobra"

	"importmock.dev/pkg/importmock/internal/domain"
)

var diffParentFlag string

// diffCmd represents the diff command.
var diffCmd = newDiffCmd()

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <specifier>",
		Short: "Show how a mock differs from the real module",
		Long: `Print a unified diff between the real module a specifier resolves to and
the replacement served to --parent.

` + specifierHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Diff(cmd.Context(), domain.DiffArgs{
				HostArgs:  hostArgs(),
				Specifier: args[0],
				Parent:    parentSpecifier(diffParentFlag),
			})
		},
	}

	cmd.Flags().StringVar(&diffParentFlag, parentFlagName, "", "importing module the mock is registered for")
	cobra.CheckErr(cmd.MarkFlagRequired(parentFlagName))

	return cmd
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
