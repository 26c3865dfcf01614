// Package nrpt checks the Windows Name Resolution Policy Table for a rule
// and adds it through PowerShell when it is missing.
package nrpt

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	// Out-String keeps long namespace lists on a single line
	listCommand = "Get-DnsClientNrptRule | Out-String -Width 4096"
	addCommand  = "Add-DnsClientNrptRule"
)

var powershellArgs = []string{"-NoProfile", "-NonInteractive", "-Command"}

type Manager struct {
	runner Runner
	shell  string
	rule   Rule
}

// NewManager returns a Manager running PowerShell from the system directory
func NewManager(rule Rule) *Manager {
	return NewManagerWithRunner(execRunner{}, powershellPath(), rule)
}

// NewManagerWithRunner used by tests and callers that need a custom command runner
func NewManagerWithRunner(runner Runner, shell string, rule Rule) *Manager {
	return &Manager{
		runner: runner,
		shell:  shell,
		rule:   rule,
	}
}

func (m *Manager) Rule() Rule {
	return m.rule
}

// List returns the raw Get-DnsClientNrptRule listing.
// The output captured so far is returned along with any error.
func (m *Manager) List(ctx context.Context) (string, error) {
	out, err := m.powershell(ctx, listCommand)
	if err != nil {
		return string(out), fmt.Errorf("list nrpt rules: %w", err)
	}
	return string(out), nil
}

// Present reports whether the managed rule is already in the policy table
func (m *Manager) Present(ctx context.Context) (bool, error) {
	listing, err := m.List(ctx)
	if err != nil {
		return false, err
	}
	return Exists(listing, m.rule), nil
}

// Ensure adds the managed rule unless the listing already contains its namespaces.
// A failed listing counts as a missing rule. The add is not retried or verified.
func (m *Manager) Ensure(ctx context.Context) (bool, error) {
	if err := m.rule.Validate(); err != nil {
		return false, err
	}

	listing, err := m.List(ctx)
	if err != nil {
		log.Warnf("%v, assuming the rule is missing", err)
	}

	if Exists(listing, m.rule) {
		log.Debugf("nrpt rule for %s already present", m.rule.NamespaceValue())
		return false, nil
	}

	log.Infof("nrpt rule for %s not found, will be inserted", m.rule.NamespaceValue())

	if out, err := m.powershell(ctx, m.addArgs()...); err != nil {
		return false, fmt.Errorf("add nrpt rule: %w, output: %s", err, strings.TrimSpace(string(out)))
	}

	log.Infof("added nrpt rule for %s via %s", m.rule.NamespaceValue(), strings.Join(m.rule.NameServers, ","))
	return true, nil
}

func (m *Manager) addArgs() []string {
	return []string{
		addCommand,
		"-NameServers", quoteList(m.rule.NameServers),
		"-Namespace", quoteList(m.rule.Namespaces),
	}
}

func (m *Manager) powershell(ctx context.Context, command ...string) ([]byte, error) {
	args := append(append([]string{}, powershellArgs...), command...)
	return m.runner.Run(ctx, m.shell, args...)
}

// quoteList renders values as a PowerShell array of single-quoted literals
func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return strings.Join(quoted, ",")
}
