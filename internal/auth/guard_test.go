package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		supplied string
		want     bool
	}{
		{name: "match", secret: "s3cret", supplied: "s3cret", want: true},
		{name: "mismatch", secret: "s3cret", supplied: "nope", want: false},
		{name: "case sensitive", secret: "s3cret", supplied: "S3CRET", want: false},
		{name: "empty supplied", secret: "s3cret", supplied: "", want: false},
		{name: "unset secret denies empty", secret: "", supplied: "", want: false},
		{name: "unset secret denies anything", secret: "", supplied: "x", want: false},
		{name: "whitespace secret counts as unset", secret: "   ", supplied: "", want: false},
		{name: "configured secret trimmed", secret: " s3cret\n", supplied: "s3cret", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewGuard(tt.secret).Authorize(tt.supplied))
		})
	}
}

func TestConfigured(t *testing.T) {
	assert.True(t, NewGuard("x").Configured())
	assert.False(t, NewGuard("").Configured())
	assert.False(t, NewGuard(" ").Configured())
}
