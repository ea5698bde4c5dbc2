package domain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// fieldSentinels maps struct fields to the sentinel reported for them.
var fieldSentinels = map[string]error{
	"HotelName": ErrHotelNameRequired,
	"Rating":    ErrRatingOutOfRange,
}

// ValidateRequest checks the struct-level constraints of a request. Voice membership
// is checked by the synthesizer against its registry, since voices can be added at
// runtime.
func ValidateRequest(r GenerationRequest) error {
	err := getValidator().Struct(r)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return NewValidationError("request", "", fmt.Errorf("%w: %v", ErrInvalidRequest, err))
	}
	fe := ves[0]
	sentinel, ok := fieldSentinels[fe.StructField()]
	if !ok {
		sentinel = ErrInvalidRequest
	}
	return NewValidationError(fe.Field(), fmt.Sprint(fe.Value()), sentinel)
}

// ValidateStruct checks the validate tags of any input struct, such as an API payload,
// reporting the first failing field.
func ValidateStruct(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return NewValidationError("body", "", fmt.Errorf("%w: %v", ErrInvalidRequest, err))
	}
	fe := ves[0]
	return NewValidationError(fe.Namespace(), fmt.Sprint(fe.Value()), fmt.Errorf("%w: failed %s", ErrInvalidRequest, fe.Tag()))
}
