package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("title is required"), http.StatusBadRequest},
		{Auth("invalid credentials"), http.StatusUnauthorized},
		{Forbidden("admin only"), http.StatusForbidden},
		{NotFound("book not found"), http.StatusNotFound},
		{Conflict("username already exists"), http.StatusConflict},
		{State("suggestion is not pending"), http.StatusConflict},
		{Storage(errors.New("disk I/O error"), "failed to list books"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := Status(tt.err); got != tt.want {
			t.Errorf("Status(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("approve: %w", State("suggestion is not pending"))
	if KindOf(err) != KindState {
		t.Errorf("KindOf = %v, want %v", KindOf(err), KindState)
	}
	if !Is(err, KindState) {
		t.Error("expected Is(err, KindState)")
	}
	if Message(err) != "suggestion is not pending" {
		t.Errorf("Message = %q", Message(err))
	}
}

func TestStorageHidesCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := Storage(cause, "failed to submit rating")
	if Message(err) != "failed to submit rating" {
		t.Errorf("Message = %q, want %q", Message(err), "failed to submit rating")
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	if Message(errors.New("boom")) != "internal error" {
		t.Errorf("Message of plain error = %q", Message(errors.New("boom")))
	}
}
