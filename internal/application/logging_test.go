package application

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/example/course-scheduler/internal/scheduler"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}

	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrUnauthorized, "unauthorized"},
		{ErrNotFound, "not_found"},
		{ErrAlreadyExists, "already_exists"},
		{ErrInvalidCredentials, "invalid_credentials"},
		{ErrAccountDisabled, "account_disabled"},
		{ErrSessionExpired, "session_expired"},
		{ErrSessionRevoked, "session_revoked"},
		{&ValidationError{FieldErrors: map[string]string{"field": "bad"}}, "validation"},
		{&ConflictError{Report: scheduler.Report{}}, "conflict"},
		{&StorageError{Op: "op", Err: errors.New("boom")}, "storage"},
		{errors.New("boom"), "unexpected"},
	}

	for _, tc := range cases {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
