// Package cli implements the passgen command line.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/vaultpass/passgen/internal/crypto"
)

// SourceFunc constructs the random source for one run.
type SourceFunc func() (crypto.Source, error)

// SystemSource seeds a source from the operating system.
func SystemSource() (crypto.Source, error) {
	src, err := crypto.NewSystemSource()
	if err != nil {
		return nil, err
	}
	return src, nil
}

// NewRootCmd builds the passgen command tree.
func NewRootCmd(newSource SourceFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "passgen",
		Short:         "Generate passwords from a secure random source",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newGenerateCmd(newSource),
		newPoliciesCmd(),
		newTokenCmd(),
	)
	return root
}
