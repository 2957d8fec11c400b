package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "importmock.dev/pkg/importmock/internal/model"
)

var initManifestFlag bool

// exampleMocks seeds the manifest written by init --manifest.
var exampleMocks = []m.MockEntry{
	{
		Importer: "src/app.js",
		Import:   "src/net.js",
		Source:   "export default 'mocked';\n",
	},
}

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default importmock.yaml configuration file",
		Long: `Create an importmock.yaml in the current working directory populated with the
current CLI defaults so it can be edited manually. With --manifest an example
mock manifest is written as well.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			err := viper.SafeWriteConfigAs(targetPath)
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			if !initManifestFlag {
				return nil
			}

			manifest := viper.GetString(mocksConfigKey)
			if _, err := os.Stat(manifest); err == nil {
				return fmt.Errorf("mock manifest %s already exists", manifest)
			}

			if err := manifestStore.SaveManifest(manifest, exampleMocks); err != nil {
				return fmt.Errorf("failed to write mock manifest: %w", err)
			}

			cmd.Printf("wrote %s and %s\n", targetPath, manifest)

			return nil
		},
	}

	cmd.Flags().BoolVar(&initManifestFlag, "manifest", false, "also write an example mock manifest")

	return cmd
}

func init() {
	rootCmd.AddCommand(initCmd)
}
