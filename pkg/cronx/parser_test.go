package cronx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr bool
	}{
		{"0 0 6 * * *", false},
		{"*/30 * * * * *", false},
		{"@daily", false},
		{"@every 1h", false},
		{"0 6 * * *", true},
		{"", true},
		{"invalid", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			err := Validate(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
