package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lorrc/kanban-board/internal/core/errors"
)

func strPtr(s string) *string { return &s }

func TestValidator_Modes(t *testing.T) {
	tests := []struct {
		name     string
		grouping *string
		sort     *string
		fields   []string
	}{
		{name: "both absent"},
		{name: "valid", grouping: strPtr("user"), sort: strPtr("title")},
		{name: "bad grouping", grouping: strPtr("assignee"), fields: []string{"grouping"}},
		{name: "bad sort", sort: strPtr("date"), fields: []string{"sortOption"}},
		{name: "empty values", grouping: strPtr(""), sort: strPtr(" "), fields: []string{"grouping", "sortOption"}},
		{name: "case sensitive", grouping: strPtr("Status"), fields: []string{"grouping"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator().
				GroupMode("grouping", tt.grouping).
				SortMode("sortOption", tt.sort)

			assert.Equal(t, len(tt.fields) > 0, v.HasErrors())
			for _, f := range tt.fields {
				assert.Contains(t, v.Errors().Errors, f)
			}
		})
	}
}

func TestValidator_UUID(t *testing.T) {
	v := NewValidator().
		UUID("a", "6f1c1f8e-3c1d-4d55-9b1f-2f0d4d7a9b10").
		UUID("b", "not-a-uuid")

	assert.NotContains(t, v.Errors().Errors, "a")
	assert.Contains(t, v.Errors().Errors, "b")
}

type prefsBody struct {
	Grouping *string `json:"grouping"`
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"grouping":"user"}`},
		{name: "empty object", body: `{}`},
		{name: "empty body", body: ``, wantErr: true},
		{name: "malformed", body: `{"grouping":`, wantErr: true},
		{name: "unknown field", body: `{"grouping":"user","colour":"red"}`, wantErr: true},
		{name: "trailing object", body: `{} {}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tt.body))

			got, err := DecodeAndValidate[prefsBody](r)

			if tt.wantErr {
				var appErr *apperrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func TestParseStringQueryParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?grouping=%20user%20&sortOption=", nil)

	require.NotNil(t, ParseStringQueryParam(r, "grouping"))
	assert.Equal(t, "user", *ParseStringQueryParam(r, "grouping"))
	assert.Nil(t, ParseStringQueryParam(r, "sortOption"))
	assert.Nil(t, ParseStringQueryParam(r, "missing"))
}
