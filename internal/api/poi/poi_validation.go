package poi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

const (
	msgNameRequired          = "You should provide a name value."
	msgDescriptionSameAsName = "The provided description should be different from the name."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validatePayload applies the distinct name/description rule first, then the
// struct tag rules, and returns every failure at once. It returns nil when
// the payload is valid.
func validatePayload(payload types.PointOfInterestForUpdate) *types.ValidationError {
	verr := types.NewValidationError()

	if payload.Description != nil && *payload.Description == payload.Name {
		verr.Add("description", msgDescriptionSameAsName)
	}

	if err := validate.Struct(payload); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			verr.Add("payload", err.Error())
			return verr
		}
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), fieldMessage(fe))
		}
	}

	if !verr.HasErrors() {
		return nil
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Field() == "name" {
			return msgNameRequired
		}
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "max":
		return fmt.Sprintf("The field %s must be a string with a maximum length of %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("The field %s is invalid.", fe.Field())
	}
}
