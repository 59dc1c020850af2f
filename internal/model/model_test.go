package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSide(t *testing.T) {
	tests := []struct {
		in     string
		want   Side
		wantOK bool
	}{
		{"buy", SideBuy, true},
		{" SELL ", SideSell, true},
		{"Buy", SideBuy, true},
		{"hold", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSide(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusDenied.IsTerminal())
}

func TestSignalClone(t *testing.T) {
	price := 1.25
	s := Signal{ID: "sig_1", Price: &price}
	c := s.Clone()
	*c.Price = 2
	assert.Equal(t, 1.25, *s.Price)
}

func TestValidationErrorIs(t *testing.T) {
	err := fmt.Errorf("submit: %w", NewValidationError("side", "must be buy or sell"))
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrUnauthorized))

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "side", ve.Field)
	assert.Equal(t, "side: must be buy or sell", ve.Error())
}
