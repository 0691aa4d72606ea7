package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/cambroos/rentals-backend/pkg/errors"
)

// MaxBodyBytes caps a quote request body; carts are small.
const MaxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// DecodeJSONBody decodes one JSON document into dest and runs its validate tags.
// Unknown fields are ignored so older clients keep working.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInvalidBody, err, "invalid request body")
	}
	if decoder.More() {
		return pkgerrors.New(pkgerrors.CodeInvalidBody, "request body must contain a single JSON object")
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		details := map[string]string{}
		fields := make([]string, 0, len(errs))
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
			fields = append(fields, fieldErr.Field())
		}
		msg := fmt.Sprintf("missing required fields: %s", strings.Join(fields, ", "))
		return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}
