package custom_errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_CollectsAllFailures(t *testing.T) {
	v := &ValidationError{}
	assert.False(t, v.HasError())
	assert.Empty(t, v.Error())

	v.Add(errors.New("first failure"))
	v.Add(errors.New("second failure"))

	assert.True(t, v.HasError())
	assert.Contains(t, v.Error(), "first failure")
	assert.Contains(t, v.Error(), "second failure")
}
