package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"

	"github.com/prediction-registry/registry/pkg/contract"
)

type HTTPRequestParser struct {
	validator *validator.Validate
}

var _ contract.HTTPRequestParser = (*HTTPRequestParser)(nil)

func NewHTTPRequestParser() (*HTTPRequestParser, error) {
	v, err := NewValidator()
	if err != nil {
		return nil, err
	}

	return &HTTPRequestParser{
		validator: v,
	}, nil
}

// ParseBody decodes the JSON body and the route parameters into input, then
// validates the result.
func (p *HTTPRequestParser) ParseBody(ctx *fiber.Ctx, input interface{}) *contract.Error {
	if err := ctx.BodyParser(input); err != nil {
		var unmarshalTypeError *json.UnmarshalTypeError
		if errors.As(err, &unmarshalTypeError) {
			result := gjson.GetBytes(ctx.Body(), unmarshalTypeError.Field)

			value := result.Str
			if value == "" {
				value = result.Raw
			}

			return contract.NewError(
				contract.INVALID_PARAMETER_VALUE,
				fmt.Sprintf("Invalid value %s for parameter '%s'", value, unmarshalTypeError.Field),
			)
		}

		return contract.NewErrorWith(contract.BAD_REQUEST, "Malformed request body", err)
	}

	return p.parseParamsAndValidate(ctx, input)
}

// ParseQuery decodes the query string and the route parameters into input,
// then validates the result.
func (p *HTTPRequestParser) ParseQuery(ctx *fiber.Ctx, input interface{}) *contract.Error {
	if err := ctx.QueryParser(input); err != nil {
		return contract.NewErrorWith(contract.BAD_REQUEST, "Malformed query string", err)
	}

	return p.parseParamsAndValidate(ctx, input)
}

// ParseParams decodes and validates the route parameters into input.
func (p *HTTPRequestParser) ParseParams(ctx *fiber.Ctx, input interface{}) *contract.Error {
	return p.parseParamsAndValidate(ctx, input)
}

func (p *HTTPRequestParser) parseParamsAndValidate(ctx *fiber.Ctx, input interface{}) *contract.Error {
	if len(ctx.Route().Params) > 0 {
		if err := ctx.ParamsParser(input); err != nil {
			return contract.NewErrorWith(contract.BAD_REQUEST, "Malformed route parameter", err)
		}
	}

	if err := p.validator.Struct(input); err != nil {
		return newErrorFromValidationError(err)
	}

	return nil
}

func dereference(value interface{}) interface{} {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}

		return v.Elem().Interface()
	}

	return value
}

func newErrorFromValidationError(err error) *contract.Error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to validate request", err)
	}

	validationErrors := make([]string, 0, len(errs))

	for _, err := range errs {
		field := err.Field()
		value := dereference(err.Value())

		var vErr string

		switch err.Tag() {
		case "required":
			vErr = fmt.Sprintf("Missing value for required parameter '%s'", field)
		case "jsonValue":
			vErr = fmt.Sprintf("Parameter '%s' must be a JSON value other than null", field)
		case "isoDate":
			vErr = fmt.Sprintf("Invalid value %v for parameter '%s', expected YYYY-MM-DD", value, field)
		case "max":
			vErr = fmt.Sprintf("Parameter '%s' exceeds the maximum length of %s", field, err.Param())
		default:
			if raw, ok := value.(json.RawMessage); ok {
				value = string(raw)
			}

			vErr = fmt.Sprintf("Invalid value %v for parameter '%s' supplied", value, field)
		}

		validationErrors = append(validationErrors, vErr)
	}

	return contract.NewError(contract.INVALID_PARAMETER_VALUE, strings.Join(validationErrors, ", "))
}
