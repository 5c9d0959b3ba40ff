package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMath_MinMax(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(2, Min(2, 5))
	assert.Equal(2, Min(5, 2))
	assert.Equal(5, Max(2, 5))
	assert.Equal(-1.5, Min(-1.5, 0.0))
}

func TestMath_Abs(t *testing.T) {
	assert.Equal(t, 3, Abs(-3))
	assert.Equal(t, 3, Abs(3))
	assert.Equal(t, 0.25, Abs(-0.25))
}

func TestMath_Clamp(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0, Clamp(-10, 100))
	assert.Equal(100, Clamp(120, 100))
	assert.Equal(42, Clamp(42, 100))
}
