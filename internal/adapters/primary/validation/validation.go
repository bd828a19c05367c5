package validation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/lorrc/kanban-board/internal/core/domain"
	apperrors "github.com/lorrc/kanban-board/internal/core/errors"
)

// maxBodyBytes bounds request bodies; preference updates are tiny.
const maxBodyBytes = 1 << 16

var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// Validator collects field errors for one request
type Validator struct {
	errors *apperrors.ValidationErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: apperrors.NewValidationErrors(),
	}
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return v.errors.HasErrors()
}

// Errors returns the validation errors
func (v *Validator) Errors() *apperrors.ValidationErrors {
	return v.errors
}

// Required validates that a string is not empty
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.errors.Add(field, "This field is required")
	}
	return v
}

// UUID validates UUID format
func (v *Validator) UUID(field, value string) *Validator {
	if value != "" && !uuidRegex.MatchString(value) {
		v.errors.Add(field, "Must be a valid UUID")
	}
	return v
}

// OneOf validates value is one of the allowed values
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v // Empty is handled by Required
	}

	for _, a := range allowed {
		if value == a {
			return v
		}
	}

	v.errors.Add(field, "Must be one of: "+strings.Join(allowed, ", "))
	return v
}

// GroupMode validates an optional grouping mode
func (v *Validator) GroupMode(field string, value *string) *Validator {
	if value == nil {
		return v
	}
	v.Required(field, *value)
	return v.OneOf(field, *value, groupModeNames())
}

// SortMode validates an optional sort mode
func (v *Validator) SortMode(field string, value *string) *Validator {
	if value == nil {
		return v
	}
	v.Required(field, *value)
	return v.OneOf(field, *value, sortModeNames())
}

// Custom adds a custom validation
func (v *Validator) Custom(field string, valid bool, message string) *Validator {
	if !valid {
		v.errors.Add(field, message)
	}
	return v
}

func groupModeNames() []string {
	names := make([]string, 0, len(domain.GroupModes))
	for _, m := range domain.GroupModes {
		names = append(names, string(m))
	}
	return names
}

func sortModeNames() []string {
	names := make([]string, 0, len(domain.SortModes))
	for _, m := range domain.SortModes {
		names = append(names, string(m))
	}
	return names
}

// DecodeAndValidate decodes a JSON request body. Unknown fields and
// trailing data are rejected.
func DecodeAndValidate[T any](r *http.Request) (*T, error) {
	var req T

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewBadRequestError(err, "Request body is required")
		}
		return nil, apperrors.NewBadRequestError(err, "Invalid request body")
	}
	if dec.More() {
		return nil, apperrors.NewBadRequestError(apperrors.ErrBadRequest, "Request body must contain a single JSON object")
	}

	return &req, nil
}

// ParseStringQueryParam returns the trimmed query value, or nil when absent
func ParseStringQueryParam(r *http.Request, key string) *string {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return nil
	}
	return &value
}
