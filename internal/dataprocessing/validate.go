package dataprocessing

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "custetl/internal/errors"
	"custetl/pkg/contracts/domain"
)

// RecordValidator re-checks clean customer records against their struct tags and
// the table-level id uniqueness rule
type RecordValidator struct {
	validate *validator.Validate
}

// NewRecordValidator creates a validator whose allowed_state tag accepts allowedStates
func NewRecordValidator(allowedStates []string) (*RecordValidator, error) {
	allowed := AllowedStateSet(allowedStates)

	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("allowed_state", func(fl validator.FieldLevel) bool {
		_, ok := allowed[fl.Field().String()]
		return ok
	})
	if err != nil {
		return nil, fmt.Errorf("register allowed_state validation: %w", err)
	}

	return &RecordValidator{validate: v}, nil
}

// Validate returns a validation error for the first record that breaks an invariant
func (v *RecordValidator) Validate(customers domain.CustomerTable) error {
	seen := make(map[int64]int, len(customers))

	for i := range customers {
		customer := customers[i]
		if err := v.validate.Struct(customer); err != nil {
			return apperrors.NewValidationError(fmt.Sprintf("clean record %d is invalid", i), err).
				WithContext("row", i).
				WithContext("customer_id", customer.CustomerID)
		}

		if first, dup := seen[customer.CustomerID]; dup {
			return apperrors.NewValidationError(
				fmt.Sprintf("customer_id %d appears in rows %d and %d", customer.CustomerID, first, i), nil).
				WithContext("row", i).
				WithContext("customer_id", customer.CustomerID)
		}
		seen[customer.CustomerID] = i
	}

	return nil
}
