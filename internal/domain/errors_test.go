package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInsufficientStockError_Mensajes(t *testing.T) {
	ship := &InsufficientStockError{Available: decimal.NewFromInt(3)}
	move := &InsufficientStockError{Available: decimal.RequireFromString("2.5"), SourceBin: true}

	assert.Equal(t, "Only 3 available", ship.Error())
	assert.Equal(t, "Only 2.5 available in source bin", move.Error())
}

func TestErroresTipados_SeEnvuelvenEnSentinels(t *testing.T) {
	wrapped := fmt.Errorf("movimiento 2: %w", &InsufficientStockError{Available: decimal.Zero})
	assert.True(t, errors.Is(wrapped, ErrInsufficientStock))

	var ise *InsufficientStockError
	assert.True(t, errors.As(wrapped, &ise))

	assert.True(t, errors.Is(NewValidationError("qty %s", "required"), ErrInvalidInput))
}
