package types_test

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/localnerve/sitecms/internal/types"
)

// TestRemoteConflictIs checks conflicts match the sentinel through wrapping
func TestRemoteConflictIs(t *testing.T) {
	err := fmt.Errorf("save: %w", &types.RemoteConflictError{Status: 409, Expected: "abc"})
	if !errors.Is(err, types.ErrRevisionConflict) {
		t.Errorf("Expected wrapped conflict to match ErrRevisionConflict")
	}

	var conflict *types.RemoteConflictError
	if !errors.As(err, &conflict) || conflict.Expected != "abc" {
		t.Errorf("Expected errors.As to recover the conflict, got %+v", conflict)
	}

	if errors.Is(&types.RemoteError{Status: 500}, types.ErrRevisionConflict) {
		t.Errorf("Expected a plain remote error not to match ErrRevisionConflict")
	}
}

// TestRemoteAuthMessages checks each reason carries its own remediation text
func TestRemoteAuthMessages(t *testing.T) {
	tests := []struct {
		reason types.RemoteAuthReason
		want   string
	}{
		{types.RemoteTokenMissing, "no access token"},
		{types.RemoteUnauthorized, "issue a new token"},
		{types.RemoteForbidden, "write permission"},
		{types.RemoteNotFound, "not found"},
	}
	for _, tt := range tests {
		msg := (&types.RemoteAuthError{Reason: tt.reason, Detail: "Bad credentials"}).Error()
		if !strings.Contains(msg, tt.want) || !strings.HasSuffix(msg, ": Bad credentials") {
			t.Errorf("%s: unexpected message %q", tt.reason, msg)
		}
	}
}

// TestUnwrap checks load and transport errors expose their cause
func TestUnwrap(t *testing.T) {
	load := &types.LoadError{Source: "data.json", Err: io.ErrUnexpectedEOF}
	if !errors.Is(load, io.ErrUnexpectedEOF) {
		t.Errorf("Expected LoadError to unwrap its cause")
	}

	transport := &types.TransportError{Op: "POST", URL: "http://localhost/api/save", Err: io.EOF}
	if !errors.Is(transport, io.EOF) {
		t.Errorf("Expected TransportError to unwrap its cause")
	}
	if got := transport.Error(); got != "POST http://localhost/api/save: EOF" {
		t.Errorf("Unexpected transport message %q", got)
	}
}

// TestWriteErrorVerbatim checks the endpoint message is shown as sent
func TestWriteErrorVerbatim(t *testing.T) {
	err := &types.WriteError{Status: 403, Message: "Invalid Admin Password."}
	if err.Error() != "Invalid Admin Password." {
		t.Errorf("Expected verbatim message, got %q", err.Error())
	}
}

// TestValidationFirst checks the first offending field is reported
func TestValidationFirst(t *testing.T) {
	if (&types.ValidationError{}).First() != "" {
		t.Errorf("Expected empty first field")
	}
	err := &types.ValidationError{Fields: []string{"siteConfig.contactEmail", "events.0.link"}}
	if err.First() != "siteConfig.contactEmail" {
		t.Errorf("Unexpected first field %q", err.First())
	}
}
