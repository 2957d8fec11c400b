// Package cmd provides the root command and CLI setup for importmock.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"importmock.dev/pkg/importmock/internal/adapter"
	"importmock.dev/pkg/importmock/internal/controller"
	"importmock.dev/pkg/importmock/internal/domain"
	m "importmock.dev/pkg/importmock/internal/model"
)

var manifestStore adapter.ManifestStore
var importScanner adapter.ImportScanner
var workflow domain.Workflow
var ui controller.UI

// mocksFlag is a root-level flag naming the mock manifest.
var mocksFlag string

// traceFlag prints MATCHED/SKIP decisions of the resolve stage.
var traceFlag bool

// verboseFlag switches the log file to debug level.
var verboseFlag bool

// moduleDirsFlag lists the directories searched for bare specifiers.
var moduleDirsFlag []string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	manifestStore = adapter.NewYAMLManifestStore(afero.NewOsFs())
	importScanner = adapter.NewRegexpImportScanner()
	workflow = domain.NewWorkflow(
		manifestStore,
		newHost,
		importScanner,
		ui,
	)
}

func newHost(opts adapter.HostOptions) adapter.Host {
	return adapter.NewOSHostFSAdapter(opts)
}

const specifierHelp = `Entry and parent paths are resolved like relative imports from the
current directory; bare names are looked up in the module directories.`

const rootLongDescription = `importmock substitutes replacement source for specific imports, scoped
to a single importing module. Every other importer of the same module keeps
receiving the real implementation.

Mocks are read from a manifest (see --mocks) mapping an importer key to
import keys and replacement source. Keys match by suffix of the real
resolved address, first registered wins.

` + specifierHelp

const runLongDescription = `Walk the module graph from an entry module, resolving and loading every
import through the mock hooks, and print the modules that were loaded.

` + specifierHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "importmock",
		Short: "Per-importer module mocking",
		Long:  rootLongDescription,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			configureLogger(cmd.Name(), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&mocksFlag, mocksFlagName, "m",
			viper.GetString(mocksConfigKey),
			"mock manifest file",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(mocksFlagName), mocksConfigKey)

	cmd.PersistentFlags().BoolVarP(&traceFlag, traceFlagName, "t", viper.GetBool(traceConfigKey), "print MATCHED/SKIP resolution decisions")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(traceFlagName), traceConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringArrayVar(&moduleDirsFlag, moduleDirFlagName, viper.GetStringSlice(moduleDirsConfigKey), "directory searched for bare specifiers (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(moduleDirFlagName), moduleDirsConfigKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		if hint := errors.FlattenHints(err); hint != "" {
			rootCmd.PrintErrln("Hint:", hint)
		}

		os.Exit(1)
	}
}

// hostArgs collects the manifest and host settings shared by the commands.
func hostArgs() domain.HostArgs {
	return domain.HostArgs{
		Manifest: manifestPath(viper.GetString(mocksConfigKey)),
		Host: adapter.HostOptions{
			ModuleDirs:    viper.GetStringSlice(moduleDirsConfigKey),
			DefaultFormat: m.Format(viper.GetString(defaultFormatConfigKey)),
		},
	}
}

// manifestPath drops the default manifest when it does not exist, so that
// running without mocks is a plain pass-through. An explicit path is kept
// and reported if missing.
func manifestPath(path string) string {
	if path != defaultMocksFile {
		return path
	}

	if _, err := os.Stat(path); err != nil {
		return ""
	}

	return path
}

// moduleSpecifier turns a command-line path into a specifier. Plain file
// names are taken relative to the working directory.
func moduleSpecifier(arg string) string {
	if arg == "" || filepath.IsAbs(arg) || strings.Contains(arg, "://") ||
		strings.HasPrefix(arg, "./") || strings.HasPrefix(arg, "../") || arg == "." || arg == ".." {
		return arg
	}

	return "./" + arg
}
