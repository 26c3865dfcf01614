package main

import (
	"os"

	"github.com/redsoft/squirrel-hooks/client/cmd"
)

func main() {
	// installer lifecycle hooks exit with 1 once handled
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
