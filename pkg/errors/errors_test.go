package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	t.Run("WithoutCause", func(t *testing.T) {
		err := New(ErrCodeDuplicateID, "resource %d appears twice", 46)
		want := "DUPLICATE_ID: resource 46 appears twice"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("WithCause", func(t *testing.T) {
		cause := stderrors.New("connection refused")
		err := Wrap(ErrCodeNetwork, cause, "get ticker")
		want := "NETWORK_ERROR: get ticker: connection refused"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(ErrCodeInternal, cause, "wrapped")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
	if New(ErrCodeInternal, "no cause").Unwrap() != nil {
		t.Error("Unwrap without cause should be nil")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeMissingName, "no name for 46")

	if !Is(err, ErrCodeMissingName) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeMissingProfit) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeMissingName) {
		t.Error("Is should not match a plain error")
	}
	if Is(nil, ErrCodeMissingName) {
		t.Error("Is should not match nil")
	}

	// The code survives wrapping in plain fmt errors.
	wrapped := fmt.Errorf("loading data: %w", err)
	if !Is(wrapped, ErrCodeMissingName) {
		t.Error("Is should unwrap fmt-wrapped errors")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeRateLimited, "slow down")); got != ErrCodeRateLimited {
		t.Errorf("GetCode = %s, want %s", got, ErrCodeRateLimited)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidCanvas, "canvas 0x100 has non-positive dimensions")
	if got := UserMessage(err); got != "canvas 0x100 has non-positive dimensions" {
		t.Errorf("UserMessage = %q", got)
	}
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}

func TestCategories(t *testing.T) {
	tests := []struct {
		code       Code
		structural bool
		domain     bool
		lookup     bool
	}{
		{ErrCodeEmptyLayer, true, false, false},
		{ErrCodeDuplicateID, true, false, false},
		{ErrCodeInvalidNode, true, false, false},
		{ErrCodeInvalidGraph, true, false, false},
		{ErrCodeInvalidCanvas, false, true, false},
		{ErrCodeValueOutOfRange, false, true, false},
		{ErrCodeInvalidRange, false, true, false},
		{ErrCodeMissingName, false, false, true},
		{ErrCodeMissingProfit, false, false, true},
		{ErrCodeNetwork, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "test")
			if got := IsStructural(err); got != tt.structural {
				t.Errorf("IsStructural = %v, want %v", got, tt.structural)
			}
			if got := IsDomain(err); got != tt.domain {
				t.Errorf("IsDomain = %v, want %v", got, tt.domain)
			}
			if got := IsLookup(err); got != tt.lookup {
				t.Errorf("IsLookup = %v, want %v", got, tt.lookup)
			}
		})
	}
}
