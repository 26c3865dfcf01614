package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/redsoft/squirrel-hooks/client/internal/dns/nrpt"
	"github.com/redsoft/squirrel-hooks/client/internal/squirrel"
	"github.com/redsoft/squirrel-hooks/util"
)

const (
	logLevelFlag       = "log-level"
	logFileFlag        = "log-file"
	updateExeFlag      = "update-exe"
	nrptNameServerFlag = "nrpt-name-server"
	nrptNamespaceFlag  = "nrpt-namespace"

	envVarPrefix = "SQH_"
)

var (
	logLevel        string
	logFile         string
	updateExe       string
	nrptNameServers []string
	nrptNamespaces  []string
	rootCmd         = &cobra.Command{
		Use:   "squirrel-hooks",
		Short: "Squirrel installer lifecycle hooks",
		Long: "Handles the --squirrel-* flags passed by the installer on first run, install, update and uninstall.\n" +
			"The subcommands run the same actions on demand.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Execute already configured logging from defaults and SQH_ variables
			if cmd.Flags().Changed(logLevelFlag) || cmd.Flags().Changed(logFileFlag) {
				return util.InitLog(logLevel, logFile)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	defaultRule := nrpt.DefaultRule()

	rootCmd.PersistentFlags().StringVarP(&logLevel, logLevelFlag, "l", "info", "sets log level")
	rootCmd.PersistentFlags().StringVar(&logFile, logFileFlag, util.ConsoleLog, "sets log path. If console is specified the log will be output to stderr")
	rootCmd.PersistentFlags().StringVar(&updateExe, updateExeFlag, "", "path to Update.exe (default: Update.exe in the parent of the executable directory)")
	rootCmd.PersistentFlags().StringSliceVar(&nrptNameServers, nrptNameServerFlag, defaultRule.NameServers, "name servers of the NRPT rule")
	rootCmd.PersistentFlags().StringSliceVar(&nrptNamespaces, nrptNamespaceFlag, defaultRule.Namespaces, "namespaces of the NRPT rule")

	rootCmd.AddCommand(nrptCmd)
	rootCmd.AddCommand(shortcutCmd)
	rootCmd.AddCommand(versionCmd)

	nrptCmd.AddCommand(nrptStatusCmd, nrptEnsureCmd)
	shortcutCmd.AddCommand(shortcutCreateCmd, shortcutRemoveCmd)
}

// ErrInstallerQuit is returned by Execute when a lifecycle flag requires the process to exit
var ErrInstallerQuit = errors.New("quitting for the installer")

// Execute handles an installer lifecycle flag first, then runs the command tree.
func Execute() error {
	SetFlagsFromEnvVars(rootCmd)
	if err := util.InitLog(logLevel, logFile); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	SetupCloseHandler(ctx, cancel)

	hooks, quit := newInstallerHooks()
	if hooks.Check(ctx, os.Args) {
		<-quit
		if err := hooks.Wait(); err != nil {
			log.Warnf("installer hook: %v", err)
		}
		return ErrInstallerQuit
	}

	args := []string{}
	if _, ok := squirrel.ParseEvent(os.Args); !ok && len(os.Args) > 1 {
		// a lifecycle flag and its version are not cobra arguments
		args = os.Args[1:]
	}
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if hookErr := hooks.Wait(); hookErr != nil {
		log.Warnf("installer hook: %v", hookErr)
	}
	return err
}

// SetupCloseHandler handles SIGTERM signal and cancels the context
func SetupCloseHandler(ctx context.Context, cancel context.CancelFunc) {
	termCh := make(chan os.Signal, 1)
	signal.Notify(termCh, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		done := ctx.Done()
		select {
		case <-done:
		case <-termCh:
			log.Info("shutdown signal received")
			cancel()
		}
		signal.Stop(termCh)
	}()
}

// SetFlagsFromEnvVars reads and updates flag values from environment variables with prefix SQH_.
// Slice flags are replaced rather than appended to, so the values act as defaults
// that a command line flag still overrides.
func SetFlagsFromEnvVars(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.VisitAll(func(f *pflag.Flag) {
		envVar := FlagNameToEnvVar(f.Name, envVarPrefix)

		value, present := os.LookupEnv(envVar)
		if !present {
			return
		}

		var err error
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			err = sv.Replace(splitEnvList(value))
		} else {
			err = flags.Set(f.Name, value)
		}
		if err != nil {
			log.Infof("unable to configure flag %s using variable %s, err: %v", f.Name, envVar, err)
		}
	})
}

func splitEnvList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// FlagNameToEnvVar converts flag name to environment var name adding a prefix,
// replacing dashes and making all uppercase (e.g. log-level is converted to SQH_LOG_LEVEL according to the input prefix)
func FlagNameToEnvVar(cmdFlag string, prefix string) string {
	parsed := strings.ReplaceAll(cmdFlag, "-", "_")
	upper := strings.ToUpper(parsed)
	return prefix + upper
}
