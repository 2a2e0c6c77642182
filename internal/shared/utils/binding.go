package utils

import (
	stderrors "errors"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tdesk-io/tdesk/internal/shared/errors"
)

// UseJSONFieldNames makes gin's binding validator report json/form names.
func UseJSONFieldNames() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

// BindError converts a failed ShouldBind* call into a validation error.
func BindError(err error) error {
	var ve validator.ValidationErrors
	if stderrors.As(err, &ve) && len(ve) > 0 {
		messages := make([]string, 0, len(ve))
		for _, fe := range ve {
			messages = append(messages, fieldErrorMessage(fe))
		}
		return errors.NewValidationError("Validation failed", strings.Join(messages, "; "))
	}
	return errors.NewValidationError("invalid request body")
}
