package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/shared/timezone"

	val "github.com/go-playground/validator/v10"
)

var validate = newValidate()

// custom holds the tags this package adds on top of the validator built-ins.
var custom = map[string]val.Func{
	"notblank": func(fl val.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	},
	"date": func(fl val.FieldLevel) bool {
		_, err := timezone.ParseDate(fl.Field().String())

		return err == nil
	},
	"maxfilesize": maxFileSize,
	"decimals":    maxDecimals,
}

// decimalTolerance absorbs the binary representation error of scaled floats.
const decimalTolerance = 1e-9

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
}

// maxFileSize takes its limit in megabytes and accepts raw bytes or strings.
func maxFileSize(fl val.FieldLevel) bool {
	limitMB, err := strconv.ParseFloat(fl.Param(), 64)
	if err != nil {
		return false
	}

	var size int

	switch value := fl.Field().Interface().(type) {
	case []byte:
		size = len(value)
	case string:
		size = len(value)
	default:
		return false
	}

	return float64(size) <= limitMB*constant.BytesInMegabyte
}

// maxDecimals accepts floats with at most param digits after the decimal point, the
// scale of the NUMERIC columns they are stored in.
func maxDecimals(fl val.FieldLevel) bool {
	places, err := strconv.Atoi(fl.Param())
	if err != nil || places < 0 {
		return false
	}

	field := fl.Field()
	if field.Kind() != reflect.Float32 && field.Kind() != reflect.Float64 {
		return false
	}

	scaled := field.Float() * math.Pow10(places)

	return math.Abs(scaled-math.Round(scaled)) <= decimalTolerance*math.Max(1, math.Abs(scaled))
}

// jsonFieldName reports fields by their JSON name so messages match the payload.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}

	return name
}

// Decode parses a JSON body into data without validating it.
func Decode[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return failure.PayloadTooLarge(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)) //nolint:wrapcheck
		}

		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return nil
}

// ValidateStruct returns the first rule violation as a 400.
func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
