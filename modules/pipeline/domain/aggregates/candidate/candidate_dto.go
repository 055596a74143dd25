package candidate

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/pkg/constants"
	"github.com/iota-uz/recruiting-crm/pkg/serrors"
)

type CreateDTO struct {
	Name             string    `json:"name" validate:"required"`
	Email            string    `json:"email" validate:"required,email"`
	Phone            string    `json:"phone"`
	StatusID         uuid.UUID `json:"status_id"`
	StatusName       string    `json:"status_name"`
	JobRequisitionID uuid.UUID `json:"job_requisition_id"`
	Skills           []string  `json:"skills"`
	Notes            string    `json:"notes"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.StatusName = strings.TrimSpace(d.StatusName)
}

func (d *CreateDTO) Validate() error {
	d.Normalize()
	errs := serrors.ValidationErrors{}
	if err := constants.Validate.Struct(d); err != nil {
		vErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = serrors.ProcessValidatorErrors(vErrs, nil)
	}
	if d.StatusID == uuid.Nil && d.StatusName == "" {
		errs["StatusID"] = "is required"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntity builds the candidate positioned on statusID, which the caller
// resolves from StatusID or StatusName.
func (d *CreateDTO) ToEntity(statusID uuid.UUID) Candidate {
	skills := d.Skills
	if skills == nil {
		skills = []string{}
	}
	return New(d.Name, d.Email, statusID,
		WithPhone(d.Phone),
		WithJobRequisitionID(d.JobRequisitionID),
		WithSkills(skills),
		WithNotes(d.Notes),
	)
}
