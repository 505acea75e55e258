package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceWrapsAround(t *testing.T) {
	s := NewSequence[int](3)
	assert.Equal(t, 0, s.Len())
	_, ok := s.Last()
	assert.False(t, ok)

	for i := 1; i <= 5; i++ {
		s.Push(i)
	}

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 3, s.Cap())
	assert.Equal(t, []int{3, 4, 5}, s.Values())
	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 5, last)
}

func TestSequenceMode(t *testing.T) {
	s := NewSequence[string](5)
	_, ok := s.Mode()
	assert.False(t, ok)

	for _, v := range []string{"a", "b", "a", "b"} {
		s.Push(v)
	}
	mode, ok := s.Mode()
	require.True(t, ok)
	assert.Equal(t, "b", mode, "tie goes to the most recent value")

	s.Push("a")
	mode, _ = s.Mode()
	assert.Equal(t, "a", mode)
}

func TestSequenceModeStableInput(t *testing.T) {
	s := NewSequence[string](4)
	for _, v := range []string{"x", "y", "x", "z"} {
		s.Push(v)
	}
	for i := 0; i < s.Cap(); i++ {
		s.Push("home")
	}
	mode, ok := s.Mode()
	require.True(t, ok)
	assert.Equal(t, "home", mode)
}

func TestSequenceMinimumCapacity(t *testing.T) {
	s := NewSequence[int](0)
	s.Push(1)
	s.Push(2)
	assert.Equal(t, []int{2}, s.Values())
}
