package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redsoft/squirrel-hooks/client/internal/dns/nrpt"
	"github.com/redsoft/squirrel-hooks/client/internal/squirrel"
)

// runExecute calls Execute with the given program arguments and restores the
// global flag state afterwards
func runExecute(t *testing.T, goos string, args ...string) error {
	t.Helper()

	oldArgs := os.Args
	os.Args = append([]string{"squirrel-hooks"}, args...)
	hooksGOOS = goos
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)

	t.Cleanup(func() {
		os.Args = oldArgs
		hooksGOOS = ""
		resetRootFlags(t)
		rootCmd.SetArgs(nil)
	})

	return Execute()
}

func resetRootFlags(t *testing.T) {
	t.Helper()

	defaultRule := nrpt.DefaultRule()
	flags := rootCmd.PersistentFlags()
	flags.VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})

	for name, value := range map[string][]string{
		nrptNameServerFlag: defaultRule.NameServers,
		nrptNamespaceFlag:  defaultRule.Namespaces,
	} {
		sv, ok := flags.Lookup(name).Value.(pflag.SliceValue)
		require.True(t, ok)
		require.NoError(t, sv.Replace(value))
	}
	logLevel = "info"
	logFile = "console"
	updateExe = ""
}

func TestExecute_EnvOverridesAppliedOnce(t *testing.T) {
	t.Setenv("SQH_NRPT_NAMESPACE", ".corp")
	t.Setenv("SQH_NRPT_NAME_SERVER", "10.9.0.1")

	require.NoError(t, runExecute(t, "linux", "version"))

	rule := nrptRule()
	assert.Equal(t, []string{"10.9.0.1"}, rule.NameServers)
	assert.Equal(t, []string{".corp"}, rule.Namespaces)
	assert.Equal(t, "{.corp}", rule.NamespaceValue())
}

func TestExecute_CommandLineOverridesEnv(t *testing.T) {
	t.Setenv("SQH_NRPT_NAMESPACE", ".corp,.corp.example")

	require.NoError(t, runExecute(t, "linux", "version", "--nrpt-namespace", ".cli"))

	assert.Equal(t, []string{".cli"}, nrptRule().Namespaces)
}

func TestExecute_LifecycleFlagIsNotACommandArgument(t *testing.T) {
	for _, flag := range []string{squirrel.FirstRunFlag, squirrel.InstallFlag, squirrel.UninstallFlag} {
		t.Run(flag, func(t *testing.T) {
			// non-Windows hosts ignore the hooks and start normally
			err := runExecute(t, "linux", flag, "1.4.2")
			assert.NoError(t, err)
		})
	}
}

func TestExecute_QuitsForInstaller(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		err := runExecute(t, "windows", squirrel.UpdatedFlag, "2.0.0")
		assert.ErrorIs(t, err, ErrInstallerQuit)
	})

	t.Run("obsolete", func(t *testing.T) {
		err := runExecute(t, "windows", squirrel.ObsoleteFlag)
		assert.ErrorIs(t, err, ErrInstallerQuit)
	})

	t.Run("install with missing updater", func(t *testing.T) {
		t.Setenv("SQH_UPDATE_EXE", filepath.Join(t.TempDir(), "Update.exe"))

		err := runExecute(t, "windows", squirrel.InstallFlag, "1.4.2")
		assert.ErrorIs(t, err, ErrInstallerQuit)
	})
}

func TestExecute_UnknownArgumentRunsCommands(t *testing.T) {
	err := runExecute(t, "windows", "version")
	assert.NoError(t, err)
}
