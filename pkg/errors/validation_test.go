package errors

import (
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"group id", "uta-ykoodi-47926", false},
		{"course code", "COMP.CS.100", false},
		{"otm id", "otm-1d25ee85-df98-4c03-b4ff-6cf8e4a85c7e", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"path traversal", "foo..bar", true},
		{"slash", "foo/bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeConfig) {
				t.Errorf("ValidateIdentifier(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeConfig)
			}
		})
	}
}

func TestValidateProgrammeID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"otm-1d25ee85-df98-4c03-b4ff-6cf8e4a85c7e", false},
		{"uta-tohjelma-1714", false},
		{"-leading-dash", true},
		{"has space", true},
		{"quote\"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateProgrammeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProgrammeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateYear(t *testing.T) {
	for _, year := range []int{2022, 2024, 1999} {
		if err := ValidateYear(year); err != nil {
			t.Errorf("ValidateYear(%d) = %v", year, err)
		}
	}
	for _, year := range []int{0, -1, 24, 30000} {
		if err := ValidateYear(year); err == nil {
			t.Errorf("ValidateYear(%d) = nil, want error", year)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://sis-tuni.funidata.fi/kori/api", false},
		{"http://localhost:8080", false},
		{"", true},
		{"ftp://example.com", true},
		{"sis-tuni.funidata.fi", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
