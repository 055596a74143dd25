package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	coreseed "github.com/iota-uz/recruiting-crm/modules/core/seed"
	"github.com/iota-uz/recruiting-crm/modules/invites/domain/aggregates/invite"
	"github.com/iota-uz/recruiting-crm/modules/invites/services"
)

type inviteLine struct {
	Code           string    `json:"code"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	UsedCount      int       `json:"used_count"`
	MaxUses        int       `json:"max_uses"`
	CreatedBy      string    `json:"created_by,omitempty"`
}

type redemptionLine struct {
	UserID     uuid.UUID  `json:"user_id"`
	ExternalID string     `json:"external_id"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Invite     inviteLine `json:"invite"`
}

func toInviteLine(i invite.Invite) inviteLine {
	return inviteLine{
		Code:           i.Code(),
		OrganizationID: i.OrganizationID(),
		Role:           i.Role().String(),
		Status:         string(i.Status()),
		UsedCount:      i.UsedCount(),
		MaxUses:        i.MaxUses(),
		CreatedBy:      i.CreatedBy(),
	}
}

func newInviteCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Issue, redeem and revoke organization invite codes",
	}
	cmd.AddCommand(newInviteCreateCmd(global))
	cmd.AddCommand(newInviteRedeemCmd(global))
	cmd.AddCommand(newInviteRevokeCmd(global))
	cmd.AddCommand(newInviteListCmd())
	return cmd
}

func newInviteCreateCmd(global *globalOptions) *cobra.Command {
	var (
		dto invite.CreateDTO
		org string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue a new invite code",
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := parseID("organization", org)
			if err != nil {
				return err
			}
			dto.OrganizationID = orgID
			dto.CreatedBy = global.actor
			return withRuntime(cmd.Context(), func(r *runtime) error {
				ctx := r.context(cmd.Context(), "invite", global.actor)
				svc := r.app.Service(services.InviteService{}).(*services.InviteService)
				inv, err := svc.Create(ctx, &dto)
				if err != nil {
					return fromService(err)
				}
				return writeJSONLine(toInviteLine(inv))
			})
		},
	}
	cmd.Flags().StringVar(&org, "org", coreseed.DefaultOrganizationID.String(), "Organization UUID")
	cmd.Flags().StringVar(&dto.Role, "role", "", "Role granted on redemption (OrgAdmin|OrgEmployee)")
	cmd.Flags().IntVar(&dto.MaxUses, "max-uses", 0, "Number of redemptions allowed (0: configured default)")
	return cmd
}

func newInviteRedeemCmd(global *globalOptions) *cobra.Command {
	var claimant invite.Claimant
	cmd := &cobra.Command{
		Use:   "redeem <code>",
		Short: "Redeem a code for an external identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(r *runtime) error {
				ctx := r.context(cmd.Context(), "invite", global.actor)
				svc := r.app.Service(services.InviteService{}).(*services.InviteService)
				res, err := svc.Redeem(ctx, args[0], claimant)
				if err != nil {
					return fromService(err)
				}
				return writeJSONLine(redemptionLine{
					UserID:     res.User.ID(),
					ExternalID: res.User.ExternalID(),
					Email:      res.User.Email(),
					Role:       res.User.Role().String(),
					Invite:     toInviteLine(res.Invite),
				})
			})
		},
	}
	cmd.Flags().StringVar(&claimant.ExternalID, "external-id", "", "Identity provider subject (required)")
	cmd.Flags().StringVar(&claimant.Email, "email", "", "Claimant email (required)")
	cmd.Flags().StringVar(&claimant.Name, "name", "", "Claimant display name")
	_ = cmd.MarkFlagRequired("external-id")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newInviteRevokeCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <code>",
		Short: "Deactivate a code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(r *runtime) error {
				ctx := r.context(cmd.Context(), "invite", global.actor)
				svc := r.app.Service(services.InviteService{}).(*services.InviteService)
				inv, err := svc.Revoke(ctx, args[0], global.actor)
				if err != nil {
					return fromService(err)
				}
				return writeJSONLine(toInviteLine(inv))
			})
		},
	}
}

func newInviteListCmd() *cobra.Command {
	var org string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the invites of an organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := parseID("organization", org)
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), func(r *runtime) error {
				ctx := r.context(cmd.Context(), "invite", "")
				svc := r.app.Service(services.InviteService{}).(*services.InviteService)
				invites, err := svc.ListForOrganization(ctx, orgID)
				if err != nil {
					return fromService(err)
				}
				for _, inv := range invites {
					if err := writeJSONLine(toInviteLine(inv)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&org, "org", coreseed.DefaultOrganizationID.String(), "Organization UUID")
	return cmd
}
