package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/podtracker/internal/model"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"validation", model.NewValidationError("name", "is required"), http.StatusBadRequest, CodeValidationFailed},
		{"wrapped validation", fmt.Errorf("create: %w", model.NewValidationError("name", "x")), http.StatusBadRequest, CodeValidationFailed},
		{"unauthenticated", fmt.Errorf("%w: token expired", model.ErrUnauthenticated), http.StatusUnauthorized, CodeUnauthorized},
		{"invalid credentials", model.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{"not owner", model.ErrNotPodOwner, http.StatusForbidden, CodeForbidden},
		{"not member", model.ErrNotPodMember, http.StatusForbidden, CodeForbidden},
		{"deck not found", model.ErrDeckNotFound, http.StatusNotFound, CodeNotFound},
		{"bare not found", model.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"email taken", model.ErrEmailTaken, http.StatusConflict, CodeConflict},
		{"has dependents", model.ErrUserHasDependents, http.StatusConflict, CodeConflict},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, CodeInternalError},
		{"invalid request", NewInvalidRequestError("bad json"), http.StatusBadRequest, CodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := toHTTPError(tt.err)
			assert.Equal(t, tt.want, he.status)
			assert.Equal(t, tt.code, he.apiError.Code)
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestWriteErrorIncludesFields(t *testing.T) {
	verr := &model.ValidationError{}
	verr.Add("email", "is invalid")
	verr.Add("password", "must be at least 6 characters")

	rec := httptest.NewRecorder()
	WriteError(rec, verr)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, CodeValidationFailed, body.Error.Code)
	assert.Equal(t, []FieldError{
		{Field: "email", Message: "is invalid"},
		{Field: "password", Message: "must be at least 6 characters"},
	}, body.Error.Fields)
}

func TestInternalErrorHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")
	assert.NotContains(t, rec.Body.String(), "fields")
}
