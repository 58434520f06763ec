package errorx

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestGetCode(t *testing.T) {
	if got := GetCode(New(CodeConflict, "busy driver")); got != CodeConflict {
		t.Fatalf("GetCode = %d", got)
	}
	// Plain errors fall back to the generic busy code.
	if got := GetCode(io.EOF); got != CodeServerBusy {
		t.Fatalf("GetCode(plain) = %d", got)
	}
	// The code survives fmt wrapping.
	wrapped := fmt.Errorf("load profile: %w", New(CodeNotFound, "no driver"))
	if got := GetCode(wrapped); got != CodeNotFound {
		t.Fatalf("GetCode(wrapped) = %d", got)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(cause, CodeDBError, "query deliveries")

	if !errors.Is(err, cause) {
		t.Fatal("cause lost")
	}
	if err.Error() != "query deliveries: dial tcp: connection refused" {
		t.Fatalf("Error() = %q", err.Error())
	}
	if GetCode(err) != CodeDBError {
		t.Fatalf("GetCode = %d", GetCode(err))
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(ErrNotFound) {
		t.Fatal("ErrNotFound must match")
	}
	if !IsNotFound(Wrap(errors.New("record not found"), CodeNotFound, "load user")) {
		t.Fatal("wrapped not-found must match")
	}
	if !IsNotFound(errors.New("record not found")) {
		t.Fatal("bare gorm sentinel text must match")
	}
	if IsNotFound(nil) || IsNotFound(io.EOF) || IsNotFound(ErrForbidden) {
		t.Fatal("false positives")
	}
}

func TestNewfFormats(t *testing.T) {
	err := Newf(CodeConflict, "cannot cancel a %s delivery", "delivered")
	if err.Msg != "cannot cancel a delivered delivery" || err.Code != CodeConflict {
		t.Fatalf("unexpected %+v", err)
	}
}
