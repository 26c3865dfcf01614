package nrpt

import (
	"fmt"
	"net/netip"
	"slices"
	"strings"

	"github.com/miekg/dns"
)

const namespaceLabel = "Namespace"

// Rule is a Name Resolution Policy Table entry routing Namespaces to NameServers
type Rule struct {
	NameServers []string
	Namespaces  []string
}

// DefaultRule returns the redsoft rule installed on first run
func DefaultRule() Rule {
	return Rule{
		NameServers: []string{"10.2.0.2"},
		Namespaces: []string{
			"redsoft.localdomain",
			".redsoft.localdomain",
			"redsoft.org",
			".redsoft.org",
		},
	}
}

// NamespaceValue renders the namespaces the way Get-DnsClientNrptRule prints them
func (r Rule) NamespaceValue() string {
	return "{" + strings.Join(r.Namespaces, ", ") + "}"
}

// Validate rejects rules that can't be expressed as an NRPT entry
func (r Rule) Validate() error {
	if len(r.NameServers) == 0 {
		return fmt.Errorf("no name servers configured")
	}
	if len(r.Namespaces) == 0 {
		return fmt.Errorf("no namespaces configured")
	}

	for _, server := range r.NameServers {
		if _, err := netip.ParseAddr(server); err != nil {
			return fmt.Errorf("invalid name server %q: %w", server, err)
		}
	}

	for _, ns := range r.Namespaces {
		if !validNamespace(ns) {
			return fmt.Errorf("invalid namespace %q", ns)
		}
	}

	return nil
}

// validNamespace accepts a DNS name with an optional leading dot made of letter-digit-hyphen labels
func validNamespace(ns string) bool {
	name := strings.TrimPrefix(ns, ".")
	if name == "" {
		return false
	}
	if _, ok := dns.IsDomainName(name); !ok {
		return false
	}

	for _, label := range dns.SplitDomainName(name) {
		for _, c := range label {
			switch {
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			default:
				return false
			}
		}
	}
	return true
}

// ParseNamespaces collects the values of every Namespace line in a rule listing.
// A line is split on its first colon and both sides are trimmed.
func ParseNamespaces(listing string) []string {
	var values []string
	for _, line := range strings.Split(listing, "\n") {
		if !isNamespaceLine(line) {
			continue
		}

		_, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		values = append(values, value)
	}
	return values
}

// isNamespaceLine matches "Namespace" followed by whitespace or the colon separator,
// leaving labels such as NamespaceType alone.
func isNamespaceLine(line string) bool {
	rest, ok := strings.CutPrefix(line, namespaceLabel)
	if !ok || rest == "" {
		return false
	}

	switch rest[0] {
	case ':', ' ', '\t':
		return true
	default:
		return false
	}
}

// Exists reports whether listing already holds a rule with the namespaces of rule
func Exists(listing string, rule Rule) bool {
	return slices.Contains(ParseNamespaces(listing), rule.NamespaceValue())
}
