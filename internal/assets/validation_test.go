package assets

import (
	"errors"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		// Valid names
		{"simple name", "default", nil},
		{"hyphen", "math-head", nil},
		{"underscore", "my_style", nil},
		{"digits and case", "Style2", nil},

		// Invalid names
		{"empty", "", ErrInvalidAssetName},
		{"slash", "a/b", ErrInvalidAssetName},
		{"backslash", `a\b`, ErrInvalidAssetName},
		{"traversal", "..", ErrInvalidAssetName},
		{"extension", "default.css", ErrInvalidAssetName},
		{"space", "my style", ErrInvalidAssetName},
		{"non-ASCII", "thème", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAssetName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
