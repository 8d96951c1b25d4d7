package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGetDecoded(t *testing.T) {
	t.Run("set and get decoded token successfully", func(t *testing.T) {
		expected := &DecodedJWT{Payload: map[string]any{"sub": "user123"}, Warnings: []string{}}

		ctx := SetDecoded(context.Background(), expected)
		decoded, err := GetDecoded[*DecodedJWT](ctx)

		assert.NoError(t, err)
		assert.Same(t, expected, decoded)
	})

	t.Run("get decoded token with wrong type returns error", func(t *testing.T) {
		ctx := SetDecoded(context.Background(), &DecodedJWT{})

		_, err := GetDecoded[string](ctx)

		assert.ErrorIs(t, err, ErrDecodedNotFound)
		assert.EqualError(t, err, "decoded token type assertion failed")
	})

	t.Run("get decoded token from empty context returns error", func(t *testing.T) {
		_, err := GetDecoded[*DecodedJWT](context.Background())

		assert.ErrorIs(t, err, ErrDecodedNotFound)
	})

	t.Run("has decoded", func(t *testing.T) {
		assert.False(t, HasDecoded(context.Background()))
		assert.True(t, HasDecoded(SetDecoded(context.Background(), &DecodedJWT{})))
	})
}
