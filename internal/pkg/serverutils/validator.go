package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"cora-leaf-be/internal/entity"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest checks struct tags and reports the first failing field as
// an *entity.ValidationError.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return entity.NewValidationError("", err.Error())
	}

	fe := fieldErrs[0]
	return entity.NewValidationError(fe.Field(), describe(fe))
}

// ParseBody decodes the request body into req. A body that cannot be decoded
// is malformed input and comes back as an *entity.ValidationError.
func ParseBody(ctx *fiber.Ctx, req interface{}) error {
	err := ctx.BodyParser(req)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		want := typeErr.Type
		for want.Kind() == reflect.Ptr {
			want = want.Elem()
		}
		return entity.NewValidationError(typeErr.Field, fmt.Sprintf("must be of type %s", want.Kind()))
	}
	return entity.NewValidationError("body", "malformed request body")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}
