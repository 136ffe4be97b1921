package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"hostel/shared/failure"

	"github.com/stretchr/testify/assert"
)

func TestFailureConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"bad request from error", failure.BadRequest(errors.New("bad input")), http.StatusBadRequest, "bad input"},
		{"bad request from string", failure.BadRequestFromString("roomNumber is required"), http.StatusBadRequest, "roomNumber is required"},
		{"bad request formatted", failure.BadRequestf("status must be one of %s", "a b"), http.StatusBadRequest, "status must be one of a b"},
		{"unauthorized", failure.Unauthorized("missing token"), http.StatusUnauthorized, "missing token"},
		{"custom code", failure.New(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests, "slow down"},
		{"not found", failure.NotFound("room not found"), http.StatusNotFound, "room not found"},
		{"conflict", failure.Conflict("stale version"), http.StatusConflict, "stale version"},
		{"forbidden", failure.Forbidden("nope"), http.StatusForbidden, "nope"},
		{"payload too large", failure.PayloadTooLarge("file too large"), http.StatusRequestEntityTooLarge, "file too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, failure.GetCode(tt.err))
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestNilErrorsStayNil(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(errors.New("plain")))
	assert.Equal(t, http.StatusConflict, failure.GetCode(failure.VersionConflictError))

	wrapped := fmt.Errorf("failed to get room: %w", failure.NotFound("room not found"))
	assert.Equal(t, http.StatusNotFound, failure.GetCode(wrapped))
}
