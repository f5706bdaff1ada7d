package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basketry/openapi3/errors"
)

const errTest = errors.Error("test error")

func TestError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "test error", errTest.Error())
}

func TestError_Wrap(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("underlying cause")
	wrapped := errTest.Wrap(cause)

	require.Error(t, wrapped)
	assert.ErrorIs(t, wrapped, errTest)
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, wrapped.Error(), "test error")
	assert.Contains(t, wrapped.Error(), "underlying cause")
}

func TestError_IsDistinguishesSentinels(t *testing.T) {
	t.Parallel()

	other := errors.Error("other error")
	assert.NotErrorIs(t, errTest, other)
	assert.NotErrorIs(t, errTest.Wrap(fmt.Errorf("cause")), other)
}
