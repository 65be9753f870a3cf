package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/model"
)

type EquipmentValidator struct {
	validate *validator.Validate
}

func NewEquipmentValidator() *EquipmentValidator {
	return &EquipmentValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (ev *EquipmentValidator) Validate(equipment *model.Equipment) error {
	err := ev.validate.Struct(equipment)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.InvalidInput(err.Error())
	}

	var problems []string
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
	}
	return apperrors.InvalidInput("Invalid equipment: " + strings.Join(problems, "; "))
}
