package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// UseJSONNames makes gin's validator report fields by their json tag, so
// error details name what the client actually sent.
func UseJSONNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// ParseError flattens a binding error into field -> message.
func ParseError(err error) map[string]string {
	out := make(map[string]string)
	var ve validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case err == nil:
	case errors.As(err, &ve):
		for _, fe := range ve {
			out[fe.Field()] = message(fe)
		}
	case errors.As(err, &typeErr):
		out[typeErr.Field] = fmt.Sprintf("must be a %s", typeErr.Type.Kind())
	default:
		out["error"] = err.Error()
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "nefield":
		return "must differ from " + fe.Param()
	}
	return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
}
