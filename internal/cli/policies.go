package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vaultpass/passgen/internal/policy"
)

func newPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List named password policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCLASSES\tALPHABET")
			for _, p := range policy.Policies() {
				spec, _ := p.Spec()
				fmt.Fprintf(tw, "%s\t%s\t%d\n", p, strings.Join(spec.Names(), ","), spec.Size())
			}
			return tw.Flush()
		},
	}
}
