package invite_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/recruiting-crm/modules/core/domain/aggregates/user"
	"github.com/iota-uz/recruiting-crm/modules/invites/domain/aggregates/invite"
	"github.com/iota-uz/recruiting-crm/pkg/serrors"
)

func TestInvite_Consume(t *testing.T) {
	inv := invite.New(uuid.New(), "abc123def0", user.RoleOrgEmployee, 2)
	first, second := uuid.New(), uuid.New()

	once, err := inv.Consume(first)
	require.NoError(t, err)
	require.Equal(t, 1, once.UsedCount())
	require.Equal(t, invite.StatusActive, once.Status())
	require.Equal(t, first.String(), once.Metadata()[invite.MetadataLastUserID])
	require.Equal(t, 0, inv.UsedCount())
	require.NotContains(t, inv.Metadata(), invite.MetadataLastUserID)

	twice, err := once.Consume(second)
	require.NoError(t, err)
	require.Equal(t, 2, twice.UsedCount())
	require.Equal(t, invite.StatusUsed, twice.Status())
	require.Equal(t, second.String(), twice.Metadata()[invite.MetadataLastUserID])

	_, err = twice.Consume(uuid.New())
	require.ErrorIs(t, err, invite.ErrCodeExhausted)

	inconsistent := invite.New(uuid.New(), "x", user.RoleOrgEmployee, 5, invite.WithStatus(invite.StatusUsed))
	err = inconsistent.Redeemable()
	require.ErrorIs(t, err, invite.ErrCodeInactive)
	require.Contains(t, err.Error(), "used")
}

func TestInvite_Redeemable(t *testing.T) {
	org := uuid.New()

	exhausted := invite.New(org, "c", user.RoleOrgAdmin, 1, invite.WithUsedCount(1))
	require.ErrorIs(t, exhausted.Redeemable(), invite.ErrCodeExhausted)
	require.Equal(t, serrors.KindInvalidState, serrors.KindOf(exhausted.Redeemable()))

	revoked := invite.New(org, "c", user.RoleOrgAdmin, 3, invite.WithUsedCount(3)).Revoke("admin", time.Now())
	err := revoked.Redeemable()
	require.ErrorIs(t, err, invite.ErrCodeInactive)
	require.Contains(t, err.Error(), "revoked")
	require.Equal(t, "admin", revoked.RevokedBy())
	require.False(t, revoked.RevokedAt().IsZero())
}

func TestGenerateCode(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		code, err := invite.GenerateCode()
		require.NoError(t, err)
		require.Regexp(t, `^[0-9a-f]{10}$`, code)
		seen[code] = true
	}
	require.Greater(t, len(seen), 95)
}

func TestCreateDTO_Validate(t *testing.T) {
	dto := &invite.CreateDTO{OrganizationID: uuid.New()}
	require.NoError(t, dto.Validate(1, 10))
	require.Equal(t, user.RoleOrgEmployee.String(), dto.Role)
	require.Equal(t, 1, dto.MaxUses)

	bad := &invite.CreateDTO{Role: "Owner", MaxUses: 11}
	err := bad.Validate(1, 10)
	var vErrs serrors.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	require.Contains(t, vErrs, "Role")

	tooMany := &invite.CreateDTO{OrganizationID: uuid.New(), MaxUses: 11}
	err = tooMany.Validate(1, 10)
	require.ErrorAs(t, err, &vErrs)
	require.Equal(t, "must be between 1 and 10", vErrs["MaxUses"])
}

func TestClaimant_Validate(t *testing.T) {
	c := &invite.Claimant{Email: " jo@example.com ", ExternalID: " auth0|jo "}
	require.NoError(t, c.Validate())
	require.Equal(t, "auth0|jo", c.ExternalID)

	err := (&invite.Claimant{Email: "nope"}).Validate()
	var vErrs serrors.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	require.Contains(t, vErrs, "Email")
	require.Contains(t, vErrs, "ExternalID")
}
