package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/aggregates/candidate"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/services"
)

type candidateLine struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	CurrentStatusID  uuid.UUID `json:"current_status_id"`
	JobRequisitionID uuid.UUID `json:"job_requisition_id,omitempty"`
	Skills           []string  `json:"skills,omitempty"`
}

type historyLine struct {
	ID         uuid.UUID `json:"id"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	ChangeDate time.Time `json:"change_date"`
	ChangedBy  string    `json:"changed_by"`
}

func toCandidateLine(c candidate.Candidate) candidateLine {
	return candidateLine{
		ID:               c.ID(),
		Name:             c.Name(),
		Email:            c.Email(),
		CurrentStatusID:  c.CurrentStatusID(),
		JobRequisitionID: c.JobRequisitionID(),
		Skills:           c.Skills(),
	}
}

func newCandidateCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candidate",
		Short: "Create candidates and move them through the pipeline",
	}
	cmd.AddCommand(newCandidateCreateCmd(global))
	cmd.AddCommand(newCandidateMoveCmd(global))
	cmd.AddCommand(newCandidateHistoryCmd())
	return cmd
}

func newCandidateCreateCmd(global *globalOptions) *cobra.Command {
	var (
		dto    candidate.CreateDTO
		status string
		job    string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a candidate in an initial status",
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseOptionalID("job", job)
			if err != nil {
				return err
			}
			dto.JobRequisitionID = jobID
			if id, err := uuid.Parse(status); err == nil {
				dto.StatusID = id
			} else {
				dto.StatusName = status
			}
			return withRuntime(cmd.Context(), func(r *runtime) error {
				ctx := r.context(cmd.Context(), "candidate", global.actor)
				svc := r.app.Service(services.CandidateService{}).(*services.CandidateService)
				c, err := svc.Create(ctx, &dto)
				if err != nil {
					return fromService(err)
				}
				return writeJSONLine(toCandidateLine(c))
			})
		},
	}
	cmd.Flags().StringVar(&dto.Name, "name", "", "Candidate name (required)")
	cmd.Flags().StringVar(&dto.Email, "email", "", "Candidate email (required)")
	cmd.Flags().StringVar(&dto.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&dto.Notes, "notes", "", "Free-form notes")
	cmd.Flags().StringSliceVar(&dto.Skills, "skill", nil, "Skill tag, repeatable")
	cmd.Flags().StringVar(&status, "status", "Sourced", "Initial status id or name")
	cmd.Flags().StringVar(&job, "job", "", "Job requisition UUID")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newCandidateMoveCmd(global *globalOptions) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "move <candidate-id>",
		Short: "Move a candidate to another status and record the change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			candidateID, err := parseID("candidate id", args[0])
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), func(r *runtime) error {
				ctx := r.context(cmd.Context(), "candidate", global.actor)
				statusID, err := resolveStatus(ctx, r, to)
				if err != nil {
					return err
				}
				svc := r.app.Service(services.TransitionService{}).(*services.TransitionService)
				c, err := svc.MoveCandidate(ctx, candidateID, statusID, global.actor)
				if err != nil {
					return fromService(err)
				}
				return writeJSONLine(toCandidateLine(c))
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Target status id or name (required)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// resolveStatus accepts either a status UUID or a status name.
func resolveStatus(ctx context.Context, r *runtime, s string) (uuid.UUID, error) {
	if id, err := uuid.Parse(s); err == nil {
		return id, nil
	}
	svc := r.app.Service(services.StatusService{}).(*services.StatusService)
	st, err := svc.GetByName(ctx, s)
	if err != nil {
		return uuid.Nil, fromService(err)
	}
	return st.ID(), nil
}

func newCandidateHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <candidate-id>",
		Short: "Print status changes, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			candidateID, err := parseID("candidate id", args[0])
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), func(r *runtime) error {
				ctx := r.context(cmd.Context(), "candidate", "")
				svc := r.app.Service(services.HistoryService{}).(*services.HistoryService)
				entries, err := svc.ListByCandidate(ctx, candidateID)
				if err != nil {
					return fromService(err)
				}
				for _, e := range entries {
					if err := writeJSONLine(historyLine{
						ID:         e.ID,
						FromStatus: e.FromStatusName,
						ToStatus:   e.ToStatusName,
						ChangeDate: e.ChangeDate,
						ChangedBy:  e.ChangedBy,
					}); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
