package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/vaultpass/passgen/internal/model"
	"github.com/vaultpass/passgen/internal/policy"
	"github.com/vaultpass/passgen/internal/service"
)

type generateOptions struct {
	length      int
	numbers     bool
	symbols     bool
	capitalized bool
	policy      string
	count       int
	raw         bool
}

func newGenerateCmd(newSource SourceFunc) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "password-generate",
		Short: "Generate one or more passwords",
		Long: `Generate passwords from lowercase letters, optionally adding digits,
symbols and capitals. A --type policy selects the alphabet on its own and
overrides the individual class flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, newSource, opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.length, "length", "l", service.DefaultLength, "password length")
	f.BoolVarP(&opts.numbers, "numbers", "n", false, "include digits")
	f.BoolVarP(&opts.symbols, "symbols", "s", false, "include symbols")
	f.BoolVarP(&opts.capitalized, "capitalized", "c", false, "include uppercase letters")
	f.StringVarP(&opts.policy, "type", "t", "", "named policy: random, pin or memorable")
	f.IntVar(&opts.count, "count", 1, "number of passwords to generate")
	f.BoolVar(&opts.raw, "raw", false, "print bare passwords without labels")

	return cmd
}

func runGenerate(cmd *cobra.Command, newSource SourceFunc, opts generateOptions) error {
	// Reject bad input before touching the entropy source.
	if _, err := policy.ParseNamedPolicy(opts.policy); err != nil {
		return err
	}

	src, err := newSource()
	if err != nil {
		return err
	}

	svc := service.NewGeneratorService(src)
	resp, err := svc.Generate(cmd.Context(), model.ChannelCLI, model.GenerateRequest{
		Length:      &opts.length,
		Type:        opts.policy,
		Numbers:     opts.numbers,
		Symbols:     opts.symbols,
		Capitalized: opts.capitalized,
		Count:       &opts.count,
	})
	if err != nil {
		return err
	}

	slog.Debug("passwords generated", "policy", resp.Policy, "length", resp.Length, "alphabet_size", resp.AlphabetSize)
	return printPasswords(cmd.OutOrStdout(), resp, opts.raw)
}

func printPasswords(w io.Writer, resp model.GenerateResponse, raw bool) error {
	label := outputLabel(resp.Policy)
	for _, pw := range resp.Passwords {
		var err error
		if raw {
			_, err = fmt.Fprintln(w, pw)
		} else {
			_, err = fmt.Fprintf(w, "%s: %s\n", label, pw)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func outputLabel(policyName string) string {
	switch policy.NamedPolicy(policyName) {
	case policy.Random:
		return "Generated fully random password"
	case policy.Pin:
		return "Generated pin"
	case policy.Memorable:
		return "Generated memorable password"
	default:
		return "Generated password"
	}
}
