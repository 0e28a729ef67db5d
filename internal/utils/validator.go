package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"koperasi-web/internal/models"
)

var validate = validator.New()

// ValidateStruct runs the validate tags on a request DTO and converts
// the first failure into the domain validation error so handlers can
// map it with DomainErrorResponse.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err
	}

	fe := errs[0]
	return &models.ValidationError{
		Field:   strings.ToLower(fe.Field()),
		Message: pesanValidasi(fe),
	}
}

func pesanValidasi(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "wajib diisi"
	case "gt":
		return fmt.Sprintf("harus lebih besar dari %s", fe.Param())
	case "gte":
		return fmt.Sprintf("minimal %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("harus salah satu dari: %s", fe.Param())
	case "min":
		return fmt.Sprintf("panjang minimal %s", fe.Param())
	case "email":
		return "format email tidak valid"
	default:
		return fmt.Sprintf("tidak valid (%s)", fe.Tag())
	}
}
