package usecase

import (
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"subscription-billing/internal/domain"
)

// StageOrderInput asks to price a fare rule for a number of months and keep the result.
type StageOrderInput struct {
	PublicID string `json:"publicId" validate:"required,uuid"`
	Months   int    `json:"months" validate:"min=1,max=12"`
}

// CreateOrderInput starts a real, chargeable checkout.
type CreateOrderInput struct {
	FareRuleID int64  `json:"fareRuleId" validate:"required,gt=0"`
	Months     int    `json:"months" validate:"min=1,max=12"`
	Gateway    string `json:"gateway,omitempty" validate:"omitempty,alphanum,max=32"`
	ReturnURL  string `json:"returnUrl,omitempty" validate:"omitempty,url"`
}

// FreePriceInput asks for upgrade/downgrade pricing with credit applied.
type FreePriceInput struct {
	PublicID string `validate:"required,uuid"`
	Months   int    `validate:"min=1,max=12"`
}

var validate = validator.New()

// validateInput reports field errors as domain.ErrInvalidArgument.
func validateInput(in any) error {
	if err := validate.Struct(in); err != nil {
		return errors.Mark(errors.Wrap(err, "invalid input"), domain.ErrInvalidArgument)
	}
	return nil
}
