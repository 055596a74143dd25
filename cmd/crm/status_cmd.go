package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/iota-uz/recruiting-crm/modules/pipeline/services"
)

type statusLine struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	OrderIndex int       `json:"order_index"`
	IsTerminal bool      `json:"is_terminal"`
}

type placementLine struct {
	Month  string `json:"month"`
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Inspect pipeline statuses",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List statuses in pipeline order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(r *runtime) error {
				ctx := r.context(cmd.Context(), "status", "")
				svc := r.app.Service(services.StatusService{}).(*services.StatusService)
				statuses, err := svc.List(ctx)
				if err != nil {
					return fromService(err)
				}
				for _, s := range statuses {
					if err := writeJSONLine(statusLine{
						ID:         s.ID(),
						Name:       s.Name(),
						OrderIndex: s.OrderIndex(),
						IsTerminal: s.IsTerminal(),
					}); err != nil {
						return err
					}
				}
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "placements",
		Short: "Count moves into terminal statuses per month",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(r *runtime) error {
				ctx := r.context(cmd.Context(), "status", "")
				svc := r.app.Service(services.HistoryService{}).(*services.HistoryService)
				rows, err := svc.PlacementMetrics(ctx)
				if err != nil {
					return fromService(err)
				}
				for _, row := range rows {
					if err := writeJSONLine(placementLine{
						Month:  row.Month.Format("2006-01"),
						Status: row.StatusName,
						Count:  row.Count,
					}); err != nil {
						return err
					}
				}
				return nil
			})
		},
	})
	return cmd
}
