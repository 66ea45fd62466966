package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMatchesSentinelAndKind(t *testing.T) {
	errStock := BusinessRuleError("Insufficient stock")
	wrapped := fmt.Errorf("inventory: record sale: %w", errStock)

	require.ErrorIs(t, wrapped, errStock)
	require.ErrorIs(t, wrapped, ErrBusinessRule)
	assert.NotErrorIs(t, wrapped, ErrFormat)
	assert.Equal(t, "Insufficient stock", UserSafeMessage(wrapped))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ClassSuccess, Classify(nil))
	assert.Equal(t, ClassClientError, Classify(FormatError("QuantitySold must be a number")))
	assert.Equal(t, ClassClientError, Classify(ErrIdempotencyConflict))
	assert.Equal(t, ClassNotFound, Classify(NotFoundError("Product not found")))
	assert.Equal(t, ClassServerError, Classify(errors.New("deadlock detected")))
	assert.Equal(t, "Internal server error", UserSafeMessage(errors.New("deadlock detected")))
}

func TestMissingFieldsError(t *testing.T) {
	err := MissingFieldsError([]string{"ProductID", "QuantitySold"})
	assert.EqualError(t, err, "Missing required fields: ProductID, QuantitySold")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestNormalizeIdempotencyKey(t *testing.T) {
	key, err := NormalizeIdempotencyKey("")
	require.NoError(t, err)
	assert.Empty(t, key)

	key, err = NormalizeIdempotencyKey("8D3C3A4E-4C1B-4F0E-9A77-0F5B1F8C2D10")
	require.NoError(t, err)
	assert.Equal(t, "8d3c3a4e-4c1b-4f0e-9a77-0f5b1f8c2d10", key)

	_, err = NormalizeIdempotencyKey("nope")
	require.ErrorIs(t, err, ErrInvalidIdempotencyKey)
	require.ErrorIs(t, err, ErrFormat)
}

func TestActorContext(t *testing.T) {
	ctx := ContextWithActor(t.Context(), "admin")
	assert.Equal(t, "admin", ActorFromContext(ctx))
	assert.Equal(t, "system", ActorFromContext(t.Context()))
}
