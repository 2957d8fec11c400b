package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"importmock.dev/pkg/importmock/internal/domain"
)

var runParallelFlag int
var runPrintSourceFlag bool

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <entry>",
		Short: "Walk a module graph with mocks applied",
		Long:  runLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Run(cmd.Context(), domain.RunArgs{
				HostArgs:    hostArgs(),
				Entry:       moduleSpecifier(args[0]),
				Parallel:    viper.GetInt(runParallelConfigKey),
				Trace:       viper.GetBool(traceConfigKey),
				PrintSource: runPrintSourceFlag,
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of modules loaded in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)
	cmd.Flags().BoolVar(&runPrintSourceFlag, printSourceFlagName, defaultPrintSource, "print the source of every loaded module")
}
