package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/sevens/internal/protocol"
)

func TestGameError_IsByCode(t *testing.T) {
	t.Parallel()

	err := New(ErrPermissionDenied, "还没轮到座位 %d", 2)
	assert.Equal(t, "还没轮到座位 2", err.Error())
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.NotErrorIs(t, err, ErrNotFound)

	wrapped := fmt.Errorf("play: %w", err)
	assert.ErrorIs(t, wrapped, ErrPermissionDenied)
	assert.False(t, errors.Is(errors.New("x"), ErrPermissionDenied))
}

func TestCodeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{ErrNotFound, protocol.ErrCodeNotFound},
		{New(ErrResourceExhausted, "满了"), protocol.ErrCodeResourceExhausted},
		{fmt.Errorf("wrap: %w", ErrAlreadyExists), protocol.ErrCodeAlreadyExists},
		{errors.New("boom"), protocol.ErrCodeInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CodeOf(tt.err), tt.err.Error())
	}
}
