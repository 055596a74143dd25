package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iota-uz/recruiting-crm/modules/deals/domain/aggregates/job"
	"github.com/iota-uz/recruiting-crm/modules/deals/domain/entities/split"
	"github.com/iota-uz/recruiting-crm/modules/deals/services"
)

// Deal amounts are stored without a currency; the CLI renders them as USD.
const displayCurrency = "USD"

type jobLine struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	Status             string    `json:"status"`
	DealAmount         string    `json:"deal_amount,omitempty"`
	WeightedDealAmount string    `json:"weighted_deal_amount,omitempty"`
}

type splitLine struct {
	Position       int    `json:"position"`
	TeammateName   string `json:"teammate_name"`
	TeammateStatus string `json:"teammate_status,omitempty"`
	Role           string `json:"role"`
	SplitPercent   string `json:"split_percent,omitempty"`
	TotalDeal      string `json:"total_deal"`
	WeightedDeal   string `json:"weighted_deal"`
}

func displayAmount(d decimal.Decimal) string {
	return money.New(d.Shift(2).Round(0).IntPart(), displayCurrency).Display()
}

func displayNullAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return displayAmount(d.Decimal)
}

func toJobLine(j *job.Job) jobLine {
	return jobLine{
		ID:                 j.ID(),
		Title:              j.Title(),
		Status:             string(j.Status()),
		DealAmount:         displayNullAmount(j.DealAmount()),
		WeightedDealAmount: displayNullAmount(j.WeightedDealAmount()),
	}
}

func toSplitLine(s split.Split) splitLine {
	line := splitLine{
		Position:       s.Position,
		TeammateName:   s.TeammateName,
		TeammateStatus: s.TeammateStatus,
		Role:           string(s.Role),
		TotalDeal:      displayAmount(s.TotalDeal),
		WeightedDeal:   displayAmount(s.WeightedDeal),
	}
	if s.SplitPercent.Valid {
		line.SplitPercent = s.SplitPercent.Decimal.String() + "%"
	}
	return line
}

func newJobCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Manage job requisitions and their deal splits",
	}
	cmd.AddCommand(newJobCreateCmd(global))
	cmd.AddCommand(newJobListCmd())
	cmd.AddCommand(newJobSplitsCmd(global))
	return cmd
}

func newJobCreateCmd(global *globalOptions) *cobra.Command {
	var (
		dto            services.CreateJobDTO
		deal, weighted string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an open job requisition",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if dto.DealAmount, err = parseAmount("deal amount", deal); err != nil {
				return err
			}
			if dto.WeightedDealAmount, err = parseAmount("weighted deal amount", weighted); err != nil {
				return err
			}
			return withRuntime(cmd.Context(), func(r *runtime) error {
				ctx := r.context(cmd.Context(), "job", global.actor)
				svc := r.app.Service(services.JobService{}).(*services.JobService)
				j, err := svc.Create(ctx, dto)
				if err != nil {
					return fromService(err)
				}
				return writeJSONLine(toJobLine(j))
			})
		},
	}
	cmd.Flags().StringVar(&dto.Title, "title", "", "Job title (required)")
	cmd.Flags().StringVar(&dto.Department, "department", "", "Department")
	cmd.Flags().StringVar(&dto.Location, "location", "", "Location")
	cmd.Flags().StringVar(&deal, "deal", "", "Deal amount")
	cmd.Flags().StringVar(&weighted, "weighted-deal", "", "Weighted deal amount")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newJobListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List job requisitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(r *runtime) error {
				ctx := r.context(cmd.Context(), "job", "")
				svc := r.app.Service(services.JobService{}).(*services.JobService)
				jobs, err := svc.List(ctx)
				if err != nil {
					return fromService(err)
				}
				for _, j := range jobs {
					if err := writeJSONLine(toJobLine(j)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newJobSplitsCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "splits",
		Short: "Show or replace the deal splits of a job",
	}
	cmd.AddCommand(newJobSplitsShowCmd())
	cmd.AddCommand(newJobSplitsReplaceCmd(global))
	return cmd
}

func newJobSplitsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Print splits in position order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseID("job id", args[0])
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), func(r *runtime) error {
				ctx := r.context(cmd.Context(), "job", "")
				svc := r.app.Service(services.DealSplitService{}).(*services.DealSplitService)
				splits, err := svc.ListByJob(ctx, jobID)
				if err != nil {
					return fromService(err)
				}
				return writeSplits(splits)
			})
		},
	}
}

func newJobSplitsReplaceCmd(global *globalOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "replace <job-id>",
		Short: "Replace every split of a job with a JSON array read from --file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseID("job id", args[0])
			if err != nil {
				return err
			}
			inputs, err := readSplitInputs(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), func(r *runtime) error {
				ctx := r.context(cmd.Context(), "job", global.actor)
				svc := r.app.Service(services.DealSplitService{}).(*services.DealSplitService)
				splits, err := svc.ReplaceSplits(ctx, jobID, inputs)
				if err != nil {
					return fromService(err)
				}
				return writeSplits(splits)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "JSON file with the split inputs, - for stdin")
	return cmd
}

func readSplitInputs(stdin io.Reader, file string) ([]split.Input, error) {
	var r io.Reader = stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, withCode(exitUsage, err)
		}
		defer f.Close()
		r = f
	}
	var inputs []split.Input
	if err := json.NewDecoder(r).Decode(&inputs); err != nil {
		return nil, withCode(exitUsage, fmt.Errorf("decode split inputs: %w", err))
	}
	return inputs, nil
}

func writeSplits(splits []split.Split) error {
	for _, s := range splits {
		if err := writeJSONLine(toSplitLine(s)); err != nil {
			return err
		}
	}
	return nil
}
