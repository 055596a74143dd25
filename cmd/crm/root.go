package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type globalOptions struct {
	actor string
}

func newRootCmd() *cobra.Command {
	var global globalOptions

	cmd := &cobra.Command{
		Use:           "crm",
		Short:         "Recruiting pipeline CRM: server, migrations and operator commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&global.actor, "actor", "", "Identity recorded as the author of changes (default: system)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newCandidateCmd(&global))
	cmd.AddCommand(newInviteCmd(&global))
	cmd.AddCommand(newJobCmd(&global))
	cmd.AddCommand(newOutboxCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
