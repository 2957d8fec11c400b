package cmd

import (
	"github.com/spf13/cobra"

	"importmock.dev/pkg/importmock/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered mocks",
		Long:  "List the mocks of the manifest in registration order, the order in which keys are matched.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.List(cmd.Context(), domain.ListArgs{Manifest: hostArgs().Manifest})
		},
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
