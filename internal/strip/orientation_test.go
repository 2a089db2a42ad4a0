package strip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in   string
		want Orientation
		ok   bool
	}{
		{"bottom", Bottom, true},
		{"top", Top, true},
		{"Bottom", Bottom, true},
		{"TOP", Top, true},
		{"sideways", Bottom, false},
		{"", Bottom, false},
	}
	for _, tc := range tests {
		got, err := ParseOrientation(tc.in)
		if !tc.ok {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestEnvToPhysBottomIsIdentity(t *testing.T) {
	m := Mapper{N: 10, Orientation: Bottom}
	for env := 0; env < 10; env++ {
		assert.Equal(t, env, m.EnvToPhys(env))
	}
}

func TestEnvToPhysTopFlips(t *testing.T) {
	m := Mapper{N: 10, Orientation: Top}
	assert.Equal(t, 9, m.EnvToPhys(0))
	assert.Equal(t, 0, m.EnvToPhys(9))
	assert.Equal(t, 5, m.EnvToPhys(4))
}

func TestEnvToPhysTopIsInvolution(t *testing.T) {
	m := Mapper{N: 66, Orientation: Top}
	for env := 0; env < 66; env++ {
		assert.Equal(t, env, m.EnvToPhys(m.EnvToPhys(env)))
	}
}
