package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redsoft/squirrel-hooks/client/internal/dns/nrpt"
)

var (
	nrptCmd = &cobra.Command{
		Use:   "nrpt",
		Short: "Inspect and repair the NRPT rule for the redsoft namespaces",
	}

	nrptStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Report whether the NRPT rule is present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rule := nrptRule()
			present, err := nrpt.NewManager(rule).Present(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read nrpt rules: %v", err)
			}

			if present {
				cmd.Printf("NRPT rule for %s is present\n", rule.NamespaceValue())
			} else {
				cmd.Printf("NRPT rule for %s is missing\n", rule.NamespaceValue())
			}
			return nil
		},
	}

	nrptEnsureCmd = &cobra.Command{
		Use:   "ensure",
		Short: "Add the NRPT rule unless it is already present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rule := nrptRule()
			added, err := nrpt.NewManager(rule).Ensure(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to ensure nrpt rule: %v", err)
			}

			if added {
				cmd.Printf("NRPT rule for %s added\n", rule.NamespaceValue())
			} else {
				cmd.Printf("NRPT rule for %s already present\n", rule.NamespaceValue())
			}
			return nil
		},
	}
)
