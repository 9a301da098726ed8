package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "equitycli/internal/errors"
)

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("inputfile", hasExtension(".csv", ".xlsx", ".xlsm"))
	v.RegisterValidation("tablefile", hasExtension(".csv", ".xlsx"))

	// Report fields by their YAML keys
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func hasExtension(exts ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		ext := strings.ToLower(filepath.Ext(fl.Field().String()))
		for _, e := range exts {
			if ext == e {
				return true
			}
		}
		return false
	}
}

// Validate checks every section and reports all failures together
func (c *Config) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewConfigError("validation could not run", err)
	}

	ve := &apperrors.ValidationErrors{}
	for _, fe := range fieldErrs {
		ve.Add(fieldPath(fe), formatValidationError(fe), fe.Value())
	}
	return ve.ErrOrNil()
}

// fieldPath drops the root struct name: "Config.trend.alpha" -> "trend.alpha"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required", "required_unless":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "inputfile":
		return fmt.Sprintf("%s must be a .csv, .xlsx or .xlsm file", field)
	case "tablefile":
		return fmt.Sprintf("%s must be a .csv or .xlsx file", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}
