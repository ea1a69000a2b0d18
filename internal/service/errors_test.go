package service

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{"rejected with message", Rejected(http.StatusBadRequest, "Title is required"), "Failed to create board", "Title is required"},
		{"rejected without message", Rejected(http.StatusInternalServerError, ""), "Failed to fetch boards", "Failed to fetch boards"},
		{"no response", NoResponse(errors.New("dial tcp: refused")), "Failed to fetch boards", MsgNoResponse},
		{"request failed", RequestFailed(errors.New("bad url")), "Failed to fetch boards", MsgRequest},
		{"wrapped", fmt.Errorf("load: %w", Rejected(http.StatusNotFound, "Board not found")), "x", "Board not found"},
		{"plain error without fallback", errors.New("boom"), "", "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err, tt.fallback))
		})
	}
}

func TestError_Error(t *testing.T) {
	assert.Equal(t, "server returned 500 Internal Server Error", Rejected(http.StatusInternalServerError, "").Error())
	assert.Equal(t, "Board not found", Rejected(http.StatusNotFound, "Board not found").Error())
	assert.Equal(t, MsgNoResponse, NoResponse(nil).Error())
	assert.Equal(t, MsgRequest, RequestFailed(nil).Error())
}

func TestError_Classification(t *testing.T) {
	assert.True(t, IsAuthError(Rejected(http.StatusUnauthorized, "")))
	assert.True(t, IsAuthError(Rejected(http.StatusForbidden, "")))
	assert.False(t, IsAuthError(Rejected(http.StatusNotFound, "")))
	assert.False(t, IsAuthError(NoResponse(nil)))

	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", Rejected(http.StatusNotFound, ""))))
	assert.False(t, IsNotFound(errors.New("not found")))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	assert.ErrorIs(t, NoResponse(cause), cause)
}
