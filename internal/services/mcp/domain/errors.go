package domain

import (
	"errors"

	apperrors "github.com/louisbranch/sadari/internal/platform/errors"
	"github.com/louisbranch/sadari/internal/platform/errors/i18n"
)

// ToolError is a rejected tool call with a localized message.
type ToolError struct {
	Code    apperrors.Code
	Message string
	cause   error
}

// Error returns the localized message followed by the code.
func (e *ToolError) Error() string {
	return e.Message + " (" + string(e.Code) + ")"
}

// Unwrap returns the domain error.
func (e *ToolError) Unwrap() error {
	return e.cause
}

// localizeError renders domain errors for locale. Other errors pass through.
func localizeError(locale string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		return err
	}
	message := i18n.GetCatalog(locale).Format(i18n.Code(domainErr.Code), domainErr.Metadata)
	return &ToolError{Code: domainErr.Code, Message: message, cause: err}
}

func errorCode(err error) string {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return string(toolErr.Code)
	}
	if code := apperrors.CodeOf(err); code != apperrors.CodeUnknown {
		return string(code)
	}
	return ""
}
