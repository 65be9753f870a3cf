package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/model"
)

type UserValidator struct {
	validate *validator.Validate
}

func NewUserValidator() *UserValidator {
	return &UserValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (uv *UserValidator) Validate(user *model.User) error {
	err := uv.validate.Struct(user)
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
	return apperrors.InvalidInput("Invalid user: " + strings.Join(problems, "; "))
}
