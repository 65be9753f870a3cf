package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/model"
	"yoyaku/pkg/timeslot"
)

// ReservationValidator checks incoming reservations before they reach the
// repository. Rules are evaluated in a fixed order so the caller always sees
// the most fundamental problem first: missing fields, then unknown or
// non-contiguous slots, then conflicts with existing reservations.
type ReservationValidator struct {
	validate *validator.Validate
}

func NewReservationValidator() *ReservationValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// catalog_slot restricts a value to the fixed slot catalog.
	_ = v.RegisterValidation("catalog_slot", func(fl validator.FieldLevel) bool {
		return timeslot.Valid(timeslot.TimeSlot(fl.Field().String()))
	})

	return &ReservationValidator{validate: v}
}

// Validate runs the full rule chain against a candidate reservation.
// sameDay must contain the existing reservations for the candidate's
// equipment and date; passing a superset is harmless.
func (rv *ReservationValidator) Validate(candidate *model.Reservation, sameDay []*model.Reservation) error {
	if err := rv.validate.Struct(candidate); err != nil {
		return asValidationError(err)
	}

	if !timeslot.Contiguous(candidate.TimeSlots) {
		return apperrors.Validation(apperrors.ReasonNonContiguousSlots,
			"time slots must be contiguous in the daily schedule")
	}

	if conflict := FirstConflict(candidate, sameDay); conflict != nil {
		return apperrors.Conflict(fmt.Sprintf(
			"equipment %s is already reserved on %s for an overlapping slot",
			candidate.EquipmentID, candidate.Date))
	}

	return nil
}

// ValidateUpdate checks the checkout toggle payload.
func (rv *ReservationValidator) ValidateUpdate(update *model.ReservationUpdate) error {
	if err := rv.validate.Struct(update); err != nil {
		return asValidationError(err)
	}
	return nil
}

func asValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Validation(apperrors.ReasonMissingFields, err.Error())
	}

	var missing []string
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "min":
			missing = append(missing, fieldName(fe))
		case "catalog_slot":
			return apperrors.Validation(apperrors.ReasonNonContiguousSlots,
				fmt.Sprintf("unknown time slot %q", fe.Value()))
		case "unique":
			return apperrors.Validation(apperrors.ReasonNonContiguousSlots,
				"time slots must not repeat")
		case "datetime":
			return apperrors.Validation(apperrors.ReasonMissingFields,
				fmt.Sprintf("field %s must be a YYYY-MM-DD date", fieldName(fe)))
		default:
			return apperrors.Validation(apperrors.ReasonMissingFields,
				fmt.Sprintf("field %s failed %s validation", fieldName(fe), fe.Tag()))
		}
	}

	return apperrors.Validation(apperrors.ReasonMissingFields,
		fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
}

func fieldName(fe validator.FieldError) string {
	// Trim the struct name prefix from the namespace.
	parts := strings.SplitN(fe.Namespace(), ".", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return fe.Field()
}
