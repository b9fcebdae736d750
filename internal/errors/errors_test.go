package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(ErrCodeInvalidCommand, "unknown layoutmsg %q", "spin")
	if got, want := err.Error(), `INVALID_COMMAND: unknown layoutmsg "spin"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := Wrap(ErrCodeStore, stderrors.New("disk full"), "save size")
	if got, want := wrapped.Error(), "STORE_ERROR: save size: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsAndGetCode(t *testing.T) {
	base := New(ErrCodeNoTarget, "nothing focused")
	err := fmt.Errorf("dispatch: %w", base)

	if !Is(err, ErrCodeNoTarget) {
		t.Error("Expected Is to find code through fmt wrapping")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Expected Is to reject a different code")
	}
	if GetCode(err) != ErrCodeNoTarget {
		t.Errorf("Expected NO_TARGET, got %q", GetCode(err))
	}
	if GetCode(stderrors.New("plain")) != "" {
		t.Error("Expected empty code for foreign error")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeConfig, "bad gaps")); got != "bad gaps" {
		t.Errorf("Expected message without code, got %q", got)
	}
	if got := UserMessage(stderrors.New("raw")); got != "raw" {
		t.Errorf("Expected raw message, got %q", got)
	}
}
