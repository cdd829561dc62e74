package postal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{"valid", "10115", nil},
		{"valid with leading zero", "01067", nil},
		{"surrounding whitespace", " 80331 ", nil},
		{"too short", "1011", ErrIncomplete},
		{"empty", "", ErrIncomplete},
		{"too long", "101155", ErrTooLong},
		{"letters", "10a15", ErrNotNumeric},
		{"umlaut counts as one character", "1011ü", ErrNotNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCode(tt.code)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestNormalizeCity(t *testing.T) {
	assert.Equal(t, "frankfurt am main", NormalizeCity("  Frankfurt am Main "))
	assert.Equal(t, "münchen", NormalizeCity("MÜNCHEN"))
}
