package errors

import (
	"errors"
	"io/fs"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeConfig, "bad value: %s", "x")

	if err.Code != ErrCodeConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeConfig)
	}
	if err.Message != "bad value: x" {
		t.Errorf("Message = %v, want %v", err.Message, "bad value: x")
	}

	expected := "CONFIG_ERROR: bad value: x"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeFetch, cause, "fetch programme")

	if err.Code != ErrCodeFetch {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFetch)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "FETCH_ERROR: fetch programme: connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestKindHelpers(t *testing.T) {
	cause := fs.ErrPermission

	tests := []struct {
		name string
		fn   func(error, string, ...any) error
		code Code
	}{
		{"fetch", Fetch, ErrCodeFetch},
		{"config", Config, ErrCodeConfig},
		{"io", IO, ErrCodeIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(cause, "op %d", 1)
			if !Is(err, tt.code) {
				t.Errorf("code = %v, want %v", GetCode(err), tt.code)
			}
			if !errors.Is(err, fs.ErrPermission) {
				t.Error("cause lost")
			}
			if tt.fn(nil, "op") != nil {
				t.Error("nil cause should give nil error")
			}
		})
	}
}

func TestKindHelpersKeepExistingCode(t *testing.T) {
	inner := New(ErrCodeConfig, "bad annotation")
	err := Fetch(inner, "outer")
	if !Is(err, ErrCodeConfig) {
		t.Errorf("code = %v, want %v", GetCode(err), ErrCodeConfig)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeIO, "test"), ErrCodeIO, true},
		{"non-matching code", New(ErrCodeIO, "test"), ErrCodeFetch, false},
		{"wrapped error", Wrap(ErrCodeFetch, New(ErrCodeConfig, "inner"), "outer"), ErrCodeFetch, true},
		{"non-Error type", errors.New("plain error"), ErrCodeIO, false},
		{"nil error", nil, ErrCodeIO, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeFetch, "test"), ErrCodeFetch},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeConfig, "friendly message"), "friendly message"},
		{"with cause", Wrap(ErrCodeIO, errors.New("disk full"), "write out.gv"), "write out.gv: disk full"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
