package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"importmock.dev/pkg/importmock/internal/controller"
	"importmock.dev/pkg/importmock/internal/domain"
	m "importmock.dev/pkg/importmock/internal/model"
)

// executeInExample runs the shared root command inside examples/basic.
func executeInExample(t *testing.T, args ...string) (string, error) {
	t.Helper()

	exampleDir, err := filepath.Abs(filepath.Join("..", "examples", "basic"))
	require.NoError(t, err)

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(exampleDir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(originalWD)) })

	t.Setenv("IMPORTMOCK_LOG_FILENAME", filepath.Join(t.TempDir(), "importmock.log"))

	// Plain output regardless of the terminal the tests run in.
	savedWorkflow := workflow
	workflow = domain.NewWorkflow(manifestStore, newHost, importScanner, controller.NewSimpleUI(rootCmd, false))
	t.Cleanup(func() { workflow = savedWorkflow })

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetChangedFlags(rootCmd)
	})

	err = rootCmd.Execute()

	return out.String(), err
}

// resetChangedFlags restores flags set by a previous execution of the
// shared command tree.
func resetChangedFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}

		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}

	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)

	for _, sub := range cmd.Commands() {
		resetChangedFlags(sub)
	}
}

func TestRunCmd_ExampleGraph(t *testing.T) {
	output, err := executeInExample(t, "run", "src/app.js", "--trace")
	require.NoError(t, err)

	assert.Contains(t, output, "mock:src/app.js,src/net.js")
	assert.Contains(t, output, "mock:src/net.js,node_modules/got/index.js")
	assert.Contains(t, output, "src/report.js")
	assert.Contains(t, strings.ToUpper(output), "TOTAL MODULES 5")

	assert.Contains(t, output, "MATCHED specifier=./net.js source=src/app.js mock=src/net.js")
	assert.Contains(t, output, "SKIP specifier=./report.js source=src/app.js")
	assert.Contains(t, output, "MATCHED specifier=got source=src/net.js mock=node_modules/got/index.js")
}

func TestRunCmd_MissingEntry(t *testing.T) {
	_, err := executeInExample(t, "run", "src/missing.js")
	require.Error(t, err)
	assert.ErrorIs(t, err, m.ErrModuleNotFound)
}

func TestResolveCmd_ScopedToParent(t *testing.T) {
	output, err := executeInExample(t, "resolve", "./net.js", "--parent", "src/app.js")
	require.NoError(t, err)
	assert.Equal(t, "./net.js -> mock:src/app.js,src/net.js (module)\n", output)

	output, err = executeInExample(t, "resolve", "./net.js", "--parent", "src/report.js")
	require.NoError(t, err)
	assert.Contains(t, output, "file://")
	assert.NotContains(t, output, "mock:")
}

func TestDiffCmd_ShowsReplacement(t *testing.T) {
	output, err := executeInExample(t, "diff", "./net.js", "--parent", "src/app.js")
	require.NoError(t, err)

	assert.Contains(t, output, "+++ mock:src/app.js,src/net.js")
	assert.Contains(t, output, "+export default async function fetchJSONMock(url) {")
	assert.Contains(t, output, "-export default async function fetchJSON(url) {")
}

func TestListCmd_ShowsManifest(t *testing.T) {
	output, err := executeInExample(t, "list")
	require.NoError(t, err)

	assert.Contains(t, output, "src/app.js")
	assert.Contains(t, output, "node_modules/got/index.js")
	assert.Contains(t, strings.ToUpper(output), "TOTAL MOCKS 2")
}
