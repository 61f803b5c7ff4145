package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForFormatVersion(t *testing.T) {
	assert.Equal(t, SHA1, ForFormatVersion(0))
	assert.Equal(t, SHA256, ForFormatVersion(1))
}

func TestSumLength(t *testing.T) {
	data := []byte("niiebla")
	assert.Len(t, Sum(SHA1, data), 20)
	assert.Len(t, Sum(SHA256, data), 32)
	assert.Equal(t, 20, SHA1.Size())
	assert.Equal(t, 32, SHA256.Size())
}
