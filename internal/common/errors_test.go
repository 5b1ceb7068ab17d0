package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorf_WrapsKind(t *testing.T) {
	err := Errorf(ErrorConflict, "folder %q already exists", "docs")

	assert.ErrorIs(t, err, ErrorConflict)
	assert.Equal(t, `folder "docs" already exists`, err.Error())

	wrapped := fmt.Errorf("create folder: %w", err)
	msg, ok := PublicMessage(wrapped)
	assert.True(t, ok)
	assert.Equal(t, `folder "docs" already exists`, msg)
	assert.ErrorIs(t, wrapped, ErrorConflict)
}

func TestPublicMessage_PlainError(t *testing.T) {
	_, ok := PublicMessage(errors.New("socket closed"))
	assert.False(t, ok)
}
