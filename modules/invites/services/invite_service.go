package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/recruiting-crm/modules/core/domain/aggregates/user"
	"github.com/iota-uz/recruiting-crm/modules/invites/domain/aggregates/invite"
	"github.com/iota-uz/recruiting-crm/modules/invites/domain/events"
	"github.com/iota-uz/recruiting-crm/pkg/composables"
	"github.com/iota-uz/recruiting-crm/pkg/outbox"
	"github.com/iota-uz/recruiting-crm/pkg/serrors"
	"github.com/iota-uz/recruiting-crm/pkg/uow"
)

const maxCodeAttempts = 3

type RedeemResult struct {
	User   user.User
	Invite invite.Invite
}

type Limits struct {
	DefaultMaxUses int
	MaxUsesLimit   int
}

type InviteService struct {
	invites invite.Repository
	users   user.Repository
	uow     uow.UnitOfWork
	outbox  outbox.Publisher
	limits  Limits
	m       *metrics
}

func NewInviteService(
	invites invite.Repository,
	users user.Repository,
	unitOfWork uow.UnitOfWork,
	publisher outbox.Publisher,
	limits Limits,
) *InviteService {
	return &InviteService{
		invites: invites,
		users:   users,
		uow:     unitOfWork,
		outbox:  publisher,
		limits:  limits,
		m:       getMetrics(),
	}
}

// Redeem admits claimant into the invite's organization. The invite row stays
// locked until the unit of work ends, so at most MaxUses redemptions succeed.
func (s *InviteService) Redeem(ctx context.Context, code string, claimant invite.Claimant) (RedeemResult, error) {
	code = strings.TrimSpace(code)
	if err := claimant.Validate(); err != nil {
		return RedeemResult{}, err
	}
	logger := composables.UseLogger(ctx).WithFields(logrus.Fields{
		"invite_code": code,
		"external_id": claimant.ExternalID,
	})

	res, err := uow.Result(ctx, s.uow, "invites.redeem", func(txCtx context.Context) (RedeemResult, error) {
		inv, err := s.invites.LockByCode(txCtx, code)
		if err != nil {
			return RedeemResult{}, err
		}
		if err := inv.Redeemable(); err != nil {
			return RedeemResult{}, err
		}

		member, err := s.users.UpsertByExternalID(txCtx, user.New(
			claimant.ExternalID,
			claimant.Email,
			claimant.Name,
			inv.Role(),
			inv.OrganizationID(),
		))
		if err != nil {
			return RedeemResult{}, err
		}

		consumed, err := inv.Consume(member.ID())
		if err != nil {
			return RedeemResult{}, err
		}
		if err := s.invites.SaveUsage(txCtx, consumed); err != nil {
			return RedeemResult{}, err
		}

		msg, err := outbox.NewMessage(events.TopicInviteRedeemedV1, consumed.ID(), events.InviteRedeemedV1{
			InviteID:       consumed.ID(),
			OrganizationID: consumed.OrganizationID(),
			UserID:         member.ID(),
			ExternalID:     member.ExternalID(),
			Role:           member.Role().String(),
			UsedCount:      consumed.UsedCount(),
			MaxUses:        consumed.MaxUses(),
			Status:         string(consumed.Status()),
			RedeemedAt:     time.Now().UTC(),
		})
		if err != nil {
			return RedeemResult{}, err
		}
		if _, err := s.outbox.Enqueue(txCtx, msg); err != nil {
			return RedeemResult{}, err
		}
		return RedeemResult{User: member, Invite: consumed}, nil
	})
	if err != nil {
		s.m.redemptionsTotal.WithLabelValues(resultLabel(err)).Inc()
		logger.WithError(err).Info("invites: redemption refused")
		return RedeemResult{}, err
	}

	s.m.redemptionsTotal.WithLabelValues("ok").Inc()
	logger.WithFields(logrus.Fields{
		"user_id":    res.User.ID(),
		"used_count": res.Invite.UsedCount(),
	}).Info("invites: code redeemed")
	return res, nil
}

// Create issues a fresh code. A colliding code is regenerated a few times.
func (s *InviteService) Create(ctx context.Context, dto *invite.CreateDTO) (invite.Invite, error) {
	if dto.CreatedBy == "" {
		dto.CreatedBy = composables.UseActor(ctx)
	}
	if err := dto.Validate(s.limits.DefaultMaxUses, s.limits.MaxUsesLimit); err != nil {
		return nil, err
	}

	var lastErr error
	for range maxCodeAttempts {
		code, err := invite.GenerateCode()
		if err != nil {
			return nil, err
		}
		created, err := uow.Result(ctx, s.uow, "invites.create", func(txCtx context.Context) (invite.Invite, error) {
			return s.invites.Create(txCtx, dto.ToEntity(code))
		})
		if !errors.Is(err, invite.ErrCodeTaken) {
			return created, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// Revoke deactivates code. Revoking twice keeps the first revocation.
func (s *InviteService) Revoke(ctx context.Context, code, revokedBy string) (invite.Invite, error) {
	if strings.TrimSpace(revokedBy) == "" {
		revokedBy = composables.UseActor(ctx)
	}
	return uow.Result(ctx, s.uow, "invites.revoke", func(txCtx context.Context) (invite.Invite, error) {
		inv, err := s.invites.LockByCode(txCtx, strings.TrimSpace(code))
		if err != nil {
			return nil, err
		}
		if inv.Status() == invite.StatusRevoked {
			return inv, nil
		}
		revoked := inv.Revoke(strings.TrimSpace(revokedBy), time.Now())
		if err := s.invites.SaveRevocation(txCtx, revoked); err != nil {
			return nil, err
		}
		return revoked, nil
	})
}

func (s *InviteService) ListForOrganization(ctx context.Context, organizationID uuid.UUID) ([]invite.Invite, error) {
	return s.invites.ListByOrganization(ctx, organizationID)
}

func (s *InviteService) GetByCode(ctx context.Context, code string) (invite.Invite, error) {
	return s.invites.GetByCode(ctx, strings.TrimSpace(code))
}

func resultLabel(err error) string {
	switch serrors.KindOf(err) {
	case serrors.KindNotFound, serrors.KindInvalidState:
		return strings.ToLower(serrors.CodeOf(err))
	case serrors.KindValidation:
		return "validation"
	default:
		return "error"
	}
}
