package errs

import (
	"errors"
	"testing"
)

func TestWrap_UnwrapsToCause(t *testing.T) {
	cause := errors.New("boom")
	err := Setup("instrument.Finder", cause)

	var kerr *Error
	if !errors.As(err, &kerr) {
		t.Fatal("expected errors.As to find *Error")
	}
	if kerr.Kind != KindSetup {
		t.Errorf("want KindSetup, got %v", kerr.Kind)
	}
	if kerr.Kind.ExitCode() != 2 {
		t.Errorf("want exit code 2, got %d", kerr.Kind.ExitCode())
	}
	if !errors.Is(err, cause) {
		t.Error("want errors.Is to find the wrapped cause")
	}
}

func TestWrap_NilErrorReturnsNil(t *testing.T) {
	if Wrap(KindFatal, "op", nil) != nil {
		t.Error("wrapping a nil error should return nil")
	}
}
