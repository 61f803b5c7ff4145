package streamio

import "testing"

import "github.com/stretchr/testify/assert"

func TestAlign(t *testing.T) {
	cases := []struct {
		name string
		v, b uint64
		want uint64
	}{
		{"zero is zero regardless of b", 0, 64, 0},
		{"already aligned", 64, 64, 64},
		{"rounds up", 1, 64, 64},
		{"rounds up to next multiple", 65, 64, 128},
		{"small alignment", 10, 16, 16},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Align(tc.v, tc.b)
			assert.Equal(t, tc.want, got)
			assert.Zero(t, got%tc.b, "aligned value must be a multiple of b")
			if tc.v != 0 {
				assert.Less(t, got-tc.v, tc.b)
			}
		})
	}
}

func TestAlign64(t *testing.T) {
	assert.Equal(t, uint64(0), Align64(0))
	assert.Equal(t, uint64(64), Align64(1))
	assert.Equal(t, uint64(64), Align64(64))
	assert.Equal(t, uint64(128), Align64(65))
}
