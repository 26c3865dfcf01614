// Package squirrel handles the lifecycle flags Squirrel passes to an application
// when it is installed, updated or removed.
package squirrel

import (
	"context"
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	nberrors "github.com/redsoft/squirrel-hooks/client/errors"
	"github.com/redsoft/squirrel-hooks/client/internal/updater"
)

const windowsOS = "windows"

// ShortcutManager creates and removes application shortcuts
type ShortcutManager interface {
	CreateShortcut(ctx context.Context, target string) <-chan updater.Result
	RemoveShortcut(ctx context.Context, target string) <-chan updater.Result
}

// RuleEnsurer makes sure a DNS policy rule exists
type RuleEnsurer interface {
	Ensure(ctx context.Context) (bool, error)
}

type Config struct {
	// GOOS defaults to runtime.GOOS
	GOOS string
	// Target is the executable base name shortcuts are created for
	Target    string
	Shortcuts ShortcutManager
	Rules     RuleEnsurer
	// Quit asks the host application to exit, it is called at most once
	Quit func()
}

type Hooks struct {
	goos      string
	target    string
	shortcuts ShortcutManager
	rules     RuleEnsurer

	quit     func()
	quitOnce sync.Once

	wg     sync.WaitGroup
	errsMu sync.Mutex
	errs   *multierror.Error
}

func New(cfg Config) *Hooks {
	goos := cfg.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	return &Hooks{
		goos:      goos,
		target:    cfg.Target,
		shortcuts: cfg.Shortcuts,
		rules:     cfg.Rules,
		quit:      cfg.Quit,
	}
}

// Check performs the action for the lifecycle flag in args[1] and reports
// whether the process should exit. Unknown flags and non-Windows hosts are no-ops.
// External failures are logged only.
func (h *Hooks) Check(ctx context.Context, args []string) bool {
	if h.goos != windowsOS {
		return false
	}

	event, ok := ParseEvent(args)
	if !ok {
		return false
	}

	logger := log.WithField("event", event.Kind.String())
	if event.Version != nil {
		logger = logger.WithField("version", event.Version.String())
	}
	logger.Info("handling installer event")

	switch event.Kind {
	case FirstRun:
		h.ensureRule(ctx)
		return false
	case Install:
		h.updateShortcuts(ctx, event.Kind)
		return true
	case Updated, Obsolete:
		h.doQuit()
		return true
	case Uninstall:
		h.updateShortcuts(ctx, event.Kind)
		return true
	default:
		return false
	}
}

// Wait blocks until background work started by Check is done and returns the failures it hit
func (h *Hooks) Wait() error {
	h.wg.Wait()

	h.errsMu.Lock()
	defer h.errsMu.Unlock()
	return nberrors.FormatErrorOrNil(h.errs)
}

func (h *Hooks) ensureRule(ctx context.Context) {
	if h.rules == nil {
		log.Warnf("no dns rule manager configured, skipping first run setup")
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		added, err := h.rules.Ensure(ctx)
		if err != nil {
			log.Warnf("failed to ensure nrpt rule: %v", err)
			h.addErr(err)
			return
		}
		if added {
			log.Infof("nrpt rule inserted")
		}
	}()
}

// updateShortcuts runs the updater for kind and quits once it is done
func (h *Hooks) updateShortcuts(ctx context.Context, kind EventKind) {
	if h.shortcuts == nil {
		log.Warnf("no shortcut manager configured, skipping %s", kind)
		h.doQuit()
		return
	}

	if kind == Install {
		h.quitAfter(kind, h.shortcuts.CreateShortcut(ctx, h.target))
		return
	}
	h.quitAfter(kind, h.shortcuts.RemoveShortcut(ctx, h.target))
}

func (h *Hooks) quitAfter(kind EventKind, resultCh <-chan updater.Result) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		res := <-resultCh
		if !res.Success() {
			// the installer keeps going either way
			log.Warnf("updater for %s did not succeed: %v", kind, res.Err)
			if res.Err != nil {
				h.addErr(res.Err)
			}
		}
		h.doQuit()
	}()
}

func (h *Hooks) doQuit() {
	h.quitOnce.Do(func() {
		if h.quit != nil {
			h.quit()
		}
	})
}

func (h *Hooks) addErr(err error) {
	h.errsMu.Lock()
	defer h.errsMu.Unlock()
	h.errs = multierror.Append(h.errs, err)
}
