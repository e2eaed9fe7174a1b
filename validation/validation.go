// Package validation binds request bodies and reports failures as
// utils.FieldError lists keyed by JSON path.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"chakula-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var setupOnce sync.Once

// Setup makes gin's validator report JSON field names.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
	})
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// BindJSON decodes and validates the body into obj. Any failure comes back
// as a ValidationFailed AppError.
func BindJSON(c *gin.Context, obj any) error {
	Setup()
	if err := c.ShouldBindJSON(obj); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate converts binding and validator errors into a ValidationFailed.
func Translate(err error) *utils.AppError {
	var (
		verrs   validator.ValidationErrors
		typeErr *json.UnmarshalTypeError
		synErr  *json.SyntaxError
	)
	switch {
	case errors.As(err, &verrs):
		details := make([]utils.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, utils.FieldError{Path: fieldPath(fe), Message: message(fe)})
		}
		return utils.ValidationFailed(details)
	case errors.As(err, &typeErr):
		return utils.ValidationFailed([]utils.FieldError{{
			Path:    typeErr.Field,
			Message: fmt.Sprintf("Expected %s, received %s", typeName(typeErr.Type), typeErr.Value),
		}})
	case errors.As(err, &synErr), errors.Is(err, io.ErrUnexpectedEOF):
		return utils.ValidationFailed([]utils.FieldError{{Path: "", Message: "Malformed JSON body"}})
	case errors.Is(err, io.EOF):
		return utils.ValidationFailed([]utils.FieldError{{Path: "", Message: "Request body is required"}})
	default:
		return utils.ValidationFailed([]utils.FieldError{{Path: "", Message: err.Error()}})
	}
}

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

// fieldPath turns "CreateMealInput.category[1]" into "category.1".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return indexPattern.ReplaceAllString(ns, ".$1")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Array must contain at least %s element(s)", fe.Param())
		}
		return fmt.Sprintf("String must contain at least %s character(s)", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Array must contain at most %s element(s)", fe.Param())
		}
		return fmt.Sprintf("String must contain at most %s character(s)", fe.Param())
	case "url":
		return "Invalid url"
	default:
		return fmt.Sprintf("Failed on the %q rule", fe.Tag())
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.Slice:
		return "string or array of strings"
	case reflect.String:
		return "string"
	default:
		return t.Kind().String()
	}
}
