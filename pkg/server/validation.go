package server

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	"github.com/prediction-registry/registry/pkg/entities"
)

// positiveInteger accepts integer fields and numeric strings above zero.
func positiveInteger(fl validator.FieldLevel) bool {
	field := fl.Field()

	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return field.Int() > 0
	case reflect.String:
		value, err := strconv.Atoi(field.String())
		if err != nil {
			return false
		}

		return value > 0
	default:
		return false
	}
}

func isoDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(entities.DateLayout, fl.Field().String())

	return err == nil
}

// jsonValue requires a present, well formed JSON document that is not null.
func jsonValue(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.Slice {
		return false
	}

	raw := fl.Field().Bytes()
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return false
	}

	return gjson.ParseBytes(raw).Type != gjson.Null
}

// fieldName reports fields by their name on the wire.
func fieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "query", "params"} {
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}

	return field.Name
}

func NewValidator() (*validator.Validate, error) {
	validate := validator.New()
	validate.RegisterTagNameFunc(fieldName)

	for tag, fn := range map[string]validator.Func{
		"positiveInteger": positiveInteger,
		"isoDate":         isoDate,
		"jsonValue":       jsonValue,
	} {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("validation registration for '%s' failed: %w", tag, err)
		}
	}

	return validate, nil
}
