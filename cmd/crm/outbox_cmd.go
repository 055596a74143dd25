package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/recruiting-crm/pkg/outbox"
)

type drainLine struct {
	Table   string `json:"table"`
	Claimed int    `json:"claimed"`
	Passes  int    `json:"passes"`
}

func newOutboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outbox",
		Short: "Operate on the transactional outbox",
	}
	cmd.AddCommand(newOutboxDrainCmd())
	return cmd
}

func newOutboxDrainCmd() *cobra.Command {
	var maxPasses int
	cmd := &cobra.Command{
		Use:   "drain",
		Short: "Dispatch every available outbox message once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(r *runtime) error {
				ctx := r.context(cmd.Context(), "outbox", "")
				tables, err := relayTables(r.conf)
				if err != nil {
					return withCode(exitUsage, err)
				}
				log := r.logger.WithField("component", "outbox")
				dispatcher := newDispatcher(r.app.EventPublisher(), log)

				for _, table := range tables {
					opts := relayOptions(r.conf, log.WithField("table", outbox.TableLabel(table)))
					opts.SingleActive = false
					relay, err := outbox.NewRelay(r.pool, table, dispatcher, opts)
					if err != nil {
						return withCode(exitUsage, err)
					}
					line := drainLine{Table: outbox.TableLabel(table)}
					for line.Passes < maxPasses {
						n, err := relay.Drain(ctx)
						if err != nil {
							return withCode(exitDB, fmt.Errorf("drain %s: %w", line.Table, err))
						}
						line.Passes++
						line.Claimed += n
						if n == 0 {
							break
						}
					}
					if err := writeJSONLine(line); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&maxPasses, "max-passes", 100, "Upper bound on claim passes per table")
	return cmd
}
