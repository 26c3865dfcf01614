package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redsoft/squirrel-hooks/client/internal/updater"
)

var (
	shortcutCmd = &cobra.Command{
		Use:   "shortcut",
		Short: "Manage application shortcuts through Update.exe",
	}

	shortcutCreateCmd = &cobra.Command{
		Use:   "create [target]",
		Short: "Create shortcuts for target, the executable name by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := newUpdater()
			return waitShortcut(cmd, "create", u.CreateShortcut(cmd.Context(), shortcutTarget(args)))
		},
	}

	shortcutRemoveCmd = &cobra.Command{
		Use:   "remove [target]",
		Short: "Remove shortcuts of target, the executable name by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := newUpdater()
			return waitShortcut(cmd, "remove", u.RemoveShortcut(cmd.Context(), shortcutTarget(args)))
		},
	}
)

func shortcutTarget(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return executableName()
}

func waitShortcut(cmd *cobra.Command, action string, resultCh <-chan updater.Result) error {
	select {
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	case res := <-resultCh:
		if !res.Success() {
			return fmt.Errorf("failed to %s shortcut: %v", action, res.Err)
		}
		cmd.Printf("shortcut %s finished in %s\n", action, res.Duration)
		return nil
	}
}
