package squirrel

import (
	goversion "github.com/hashicorp/go-version"
	log "github.com/sirupsen/logrus"
)

// EventKind is an installer lifecycle phase signalled through argv[1]
type EventKind int

const (
	None EventKind = iota
	FirstRun
	Install
	Updated
	Obsolete
	Uninstall
)

const (
	FirstRunFlag  = "--squirrel-firstrun"
	InstallFlag   = "--squirrel-install"
	UpdatedFlag   = "--squirrel-updated"
	ObsoleteFlag  = "--squirrel-obsolete"
	UninstallFlag = "--squirrel-uninstall"
)

var eventFlags = map[string]EventKind{
	FirstRunFlag:  FirstRun,
	InstallFlag:   Install,
	UpdatedFlag:   Updated,
	ObsoleteFlag:  Obsolete,
	UninstallFlag: Uninstall,
}

func (k EventKind) String() string {
	switch k {
	case FirstRun:
		return FirstRunFlag
	case Install:
		return InstallFlag
	case Updated:
		return UpdatedFlag
	case Obsolete:
		return ObsoleteFlag
	case Uninstall:
		return UninstallFlag
	default:
		return "none"
	}
}

// Event is a parsed lifecycle invocation. Version is the application version
// the installer passes after the flag; it is nil when absent or malformed.
type Event struct {
	Kind    EventKind
	Version *goversion.Version
}

// ParseEvent reads the lifecycle flag from args[1], args[0] being the program path
func ParseEvent(args []string) (Event, bool) {
	if len(args) < 2 {
		return Event{}, false
	}

	kind, ok := eventFlags[args[1]]
	if !ok {
		return Event{}, false
	}

	event := Event{Kind: kind}
	if kind == FirstRun || len(args) < 3 {
		return event, true
	}

	v, err := goversion.NewVersion(args[2])
	if err != nil {
		log.Debugf("ignoring %s version %q: %v", kind, args[2], err)
		return event, true
	}
	event.Version = v

	return event, true
}
