package cmd

import (
	"fmt"
	"strconv"

	domainAccess "github.com/AzielCF/wap-gatekeeper/domains/access"
	"github.com/spf13/cobra"
)

// newDomainCommand builds the one-shot subcommands shared by users and groups.
// Every subcommand loads the configuration fresh and prints the status line.
func newDomainCommand(desc domainAccess.Descriptor, short string) *cobra.Command {
	parent := &cobra.Command{
		Use:     desc.Plural,
		Aliases: []string{desc.Noun},
		Short:   short,
	}

	parent.AddCommand(&cobra.Command{
		Use:   "pending",
		Short: fmt.Sprintf("List pending %s", desc.Plural),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := loadDocument(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), accessUsecase.ListPending(cmd.Context(), desc.Domain, doc))
			return nil
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   "allowed",
		Short: fmt.Sprintf("List allowed %s", desc.Plural),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := loadDocument(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), accessUsecase.ListAllowed(cmd.Context(), desc.Domain, doc))
			return nil
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   "approve <number>",
		Short: fmt.Sprintf("Approve the pending %s at the given position", desc.Noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[0], err)
			}
			doc, err := loadDocument(cmd.Context())
			if err != nil {
				return err
			}
			return report(cmd, accessUsecase.Approve(cmd.Context(), desc.Domain, index, doc))
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   fmt.Sprintf("remove <%s>", desc.KeyLabel),
		Short: fmt.Sprintf("Remove an allowed %s", desc.Noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd.Context())
			if err != nil {
				return err
			}
			return report(cmd, accessUsecase.Remove(cmd.Context(), desc.Domain, args[0], doc))
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   "truncate",
		Short: fmt.Sprintf("Clear the pending %s list", desc.Plural),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := loadDocument(cmd.Context())
			if err != nil {
				return err
			}
			return report(cmd, accessUsecase.Truncate(cmd.Context(), desc.Domain, doc))
		},
	})

	return parent
}

// report prints the status line. Failed transitions also exit non-zero.
func report(cmd *cobra.Command, res domainAccess.Result) error {
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	if res.Outcome == domainAccess.OutcomeFailed {
		return res.Err
	}
	return nil
}
