package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// report json field names instead of Go field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// FormatBindingError turns a ShouldBindJSON failure into a message fit for
// an admin client.
func FormatBindingError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, io.EOF) {
		return "Request body is empty"
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Sprintf("Invalid JSON at byte offset %d", syntaxErr.Offset)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("Field '%s' should be of type %s", typeErr.Field, typeErr.Type)
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make([]string, 0, len(ve))
		for _, fe := range ve {
			out = append(out, formatFieldError(fe))
		}
		return strings.Join(out, ", ")
	}

	return err.Error()
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field '%s' is required", fe.Field())
	case "url":
		return fmt.Sprintf("Field '%s' must be a valid URL", fe.Field())
	case "min":
		return fmt.Sprintf("Field '%s' must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("Field '%s' must be at most %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("Field '%s' failed validation for '%s'", fe.Field(), fe.Tag())
}
