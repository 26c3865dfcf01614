package cmd

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/redsoft/squirrel-hooks/client/internal/dns/nrpt"
	"github.com/redsoft/squirrel-hooks/client/internal/squirrel"
	"github.com/redsoft/squirrel-hooks/client/internal/updater"
)

// hooksGOOS overrides the platform the lifecycle hooks run for, empty means runtime.GOOS
var hooksGOOS string

func newInstallerHooks() (*squirrel.Hooks, <-chan struct{}) {
	quit := make(chan struct{})

	hooks := squirrel.New(squirrel.Config{
		GOOS:      hooksGOOS,
		Target:    executableName(),
		Shortcuts: newUpdater(),
		Rules:     nrpt.NewManager(nrptRule()),
		Quit:      func() { close(quit) },
	})
	return hooks, quit
}

func newUpdater() *updater.Updater {
	if updateExe != "" {
		return updater.NewWithPath(updateExe)
	}

	u, err := updater.New()
	if err != nil {
		log.Warnf("falling back to program path for the updater location: %v", err)
		return updater.NewWithPath(updater.ExecutablePath(os.Args[0]))
	}
	return u
}

func executableName() string {
	exe, err := os.Executable()
	if err != nil {
		return filepath.Base(os.Args[0])
	}
	return filepath.Base(exe)
}

func nrptRule() nrpt.Rule {
	return nrpt.Rule{
		NameServers: nrptNameServers,
		Namespaces:  nrptNamespaces,
	}
}
