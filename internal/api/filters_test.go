package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFilter(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr error
	}{
		{name: "camera", expr: "camera=driveway"},
		{name: "label", expr: "label=person"},
		{name: "after", expr: "after=2026-08-01T00:00:00Z"},
		{name: "before", expr: "before=2026-08-30T00:00:00Z"},
		{name: "missing equals", expr: "camera", wantErr: ErrInvalidFilterFormat},
		{name: "empty value", expr: "camera=", wantErr: ErrInvalidFilterFormat},
		{name: "unknown key", expr: "zone=porch", wantErr: ErrUnknownFilterKey},
		{name: "bad time", expr: "after=yesterday", wantErr: ErrInvalidFilterTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilter(tt.expr)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFilters_Validate_SkipsEmpty(t *testing.T) {
	assert.NoError(t, Filters{"", "camera=front"}.Validate())
	assert.Error(t, Filters{"camera=front", "bogus"}.Validate())
}

func TestFilters_Key(t *testing.T) {
	assert.Equal(t, "camera=front&label=car", Filters{"camera=front", "label=car"}.Key())
	assert.Empty(t, Filters(nil).Key())
}
