package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected int64
	}{
		{"512B", 512},
		{"10KB", 10 * 1024},
		{"10MB", 10 * 1024 * 1024},
		{"2GB", 2 * 1024 * 1024 * 1024},
		{"0B", 0},
	}
	for _, tt := range tests {
		size, err := ParseFileSize(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, size, tt.input)
	}
}

func TestParseFileSizeInvalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "10", "MB", "10mb", "10 MB", "-10MB", "10TB", "1.5MB"} {
		_, err := ParseFileSize(input)
		assert.Error(t, err, input)
	}
}
