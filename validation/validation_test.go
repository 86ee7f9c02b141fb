package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/tasklist-go/apperror"
)

type sample struct {
	Username string `json:"username" validate:"required,max=8"`
	Title    string `json:"title" validate:"required"`
	Note     string `validate:"max=3"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		wantErr string
	}{
		{name: "valid", in: sample{Username: "alice", Title: "buy milk"}},
		{name: "missing username", in: sample{Title: "x"}, wantErr: "username: this field is required"},
		{name: "username too long", in: sample{Username: strings.Repeat("a", 9), Title: "x"}, wantErr: "username: must be at most 8 characters"},
		{name: "falls back to go field name", in: sample{Username: "a", Title: "x", Note: "long"}, wantErr: "Note: must be at most 3 characters"},
		{name: "reports every field", in: sample{}, wantErr: "username: this field is required; title: this field is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.ValidationError))
			assert.Equal(t, tt.wantErr, apperror.FromError(err).Message)
		})
	}
}
