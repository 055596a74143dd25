package invite

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/modules/core/domain/aggregates/user"
	"github.com/iota-uz/recruiting-crm/pkg/constants"
	"github.com/iota-uz/recruiting-crm/pkg/serrors"
)

// Claimant is the identity redeeming an invite, as asserted by the identity provider.
type Claimant struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name"`
	ExternalID string `json:"external_id" validate:"required"`
}

func (c *Claimant) Normalize() {
	c.Email = strings.TrimSpace(c.Email)
	c.Name = strings.TrimSpace(c.Name)
	c.ExternalID = strings.TrimSpace(c.ExternalID)
}

func (c *Claimant) Validate() error {
	c.Normalize()
	return validate(c)
}

type CreateDTO struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	Role           string    `json:"role" validate:"omitempty,oneof=OrgAdmin OrgEmployee"`
	MaxUses        int       `json:"max_uses" validate:"gte=0"`
	CreatedBy      string    `json:"created_by"`
}

// Validate applies defaults and checks MaxUses against limit.
func (d *CreateDTO) Validate(defaultMaxUses, limit int) error {
	d.Role = strings.TrimSpace(d.Role)
	d.CreatedBy = strings.TrimSpace(d.CreatedBy)
	if d.Role == "" {
		d.Role = user.RoleOrgEmployee.String()
	}
	if d.MaxUses == 0 {
		d.MaxUses = defaultMaxUses
	}
	if err := validate(d); err != nil {
		return err
	}
	errs := serrors.ValidationErrors{}
	if d.OrganizationID == uuid.Nil {
		errs["OrganizationID"] = "is required"
	}
	if d.MaxUses < 1 || d.MaxUses > limit {
		errs["MaxUses"] = fmt.Sprintf("must be between 1 and %d", limit)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (d *CreateDTO) ToEntity(code string) Invite {
	return New(d.OrganizationID, code, user.Role(d.Role), d.MaxUses, WithCreatedBy(d.CreatedBy))
}

func validate(s any) error {
	err := constants.Validate.Struct(s)
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	return serrors.ProcessValidatorErrors(vErrs, nil)
}
