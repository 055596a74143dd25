package main

import (
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default organization and pipeline statuses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(r *runtime) error {
				ctx := r.context(cmd.Context(), "seed", "")
				return withCode(exitDB, r.app.Seeder().Seed(ctx, r.app))
			})
		},
	}
}
