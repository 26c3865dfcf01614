package cmd

import (
	"github.com/spf13/cobra"

	"github.com/redsoft/squirrel-hooks/version"
)

var (
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "prints squirrel-hooks version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.Version())
		},
	}
)
