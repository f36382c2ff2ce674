package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	verr := NewValidationError()
	assert.False(t, verr.HasErrors())

	verr.Add("name", "You should provide a name value.")
	verr.Add("description", "too long")
	verr.Add("description", "must differ")

	assert.True(t, verr.HasErrors())
	assert.Equal(t, "validation failed: description: too long; must differ, name: You should provide a name value.", verr.Error())

	wrapped := fmt.Errorf("create failed: %w", verr)
	assert.True(t, errors.Is(wrapped, ErrBadRequest))

	var target *ValidationError
	assert.True(t, errors.As(wrapped, &target))
	assert.Len(t, target.Errors["description"], 2)
}

func TestNotFoundErrors(t *testing.T) {
	assert.True(t, errors.Is(ErrCityNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrPointOfInterestNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrPersistence, ErrNotFound))
}
