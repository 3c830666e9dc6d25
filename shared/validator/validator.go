package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"salonbook/shared/constant"
	"salonbook/shared/failure"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"
)

var validate = newValidate()

// layouts are registered as tags that accept a string parsing with the layout.
var layouts = map[string]string{
	"rfc3339":  constant.DateFormat,
	"dateonly": constant.DateOnlyFormat,
}

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonTagName)

	for tag, layout := range layouts {
		if err := v.RegisterValidation(tag, layoutValidation(layout)); err != nil {
			panic(err)
		}
	}

	return v
}

func layoutValidation(layout string) val.Func {
	return func(field val.FieldLevel) bool {
		value, ok := field.Field().Interface().(string)
		if !ok {
			return false
		}

		_, err := time.Parse(layout, value)

		return err == nil
	}
}

// jsonTagName reports fields by their JSON name so messages match the payload.
func jsonTagName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

// Validate decodes a JSON body into data and validates it. Both decode and
// validation problems come back as 400 failures.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
