package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSenderID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plus prefix stripped", "+972501234567", "972501234567"},
		{"separators stripped", "+972-50-123-4567", "972501234567"},
		{"leading zeros stripped", "0501234567", "501234567"},
		{"letters stripped", "wa:972501234567", "972501234567"},
		{"empty input", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSenderID(tt.input))
		})
	}
}

func TestSenderHash(t *testing.T) {
	t.Run("stable for same input", func(t *testing.T) {
		a := SenderHash("972501234567", "salt-one")
		b := SenderHash("972501234567", "salt-one")
		assert.Equal(t, a, b)
		assert.Len(t, a, 64)
	})

	t.Run("differs by salt", func(t *testing.T) {
		a := SenderHash("972501234567", "salt-one")
		b := SenderHash("972501234567", "salt-two")
		assert.NotEqual(t, a, b)
	})

	t.Run("differs by sender", func(t *testing.T) {
		a := SenderHash("972501234567", "salt-one")
		b := SenderHash("972501234568", "salt-one")
		assert.NotEqual(t, a, b)
	})
}

func TestSenderLast4(t *testing.T) {
	assert.Equal(t, "4567", SenderLast4("972501234567"))
	assert.Equal(t, "", SenderLast4("123"))
}
