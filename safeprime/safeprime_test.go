package safeprime

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	x, err := Generate(256, nil)

	require.NoError(t, err)
	require.NotNil(t, x)
	require.Equal(t, 256, x.BitLen())
	require.True(t, x.ProbablyPrime(40), "Generated number was not prime")

	y := new(big.Int).Sub(x, big.NewInt(1))
	y.Div(y, big.NewInt(2))

	require.True(t, y.ProbablyPrime(40), "Generated number was not a safe prime")
}

func TestGenerateStopped(t *testing.T) {
	stop := make(chan struct{})
	close(stop)
	// the stop channel is checked before the first candidate
	x, err := Generate(4096, stop)
	require.NoError(t, err)
	require.Nil(t, x)
}

func TestGenerateTooSmall(t *testing.T) {
	_, err := Generate(2, nil)
	require.Error(t, err)
}

func TestProbablySafePrime(t *testing.T) {
	assert.True(t, ProbablySafePrime(big.NewInt(2306179907), 40))
	assert.True(t, ProbablySafePrime(big.NewInt(26903), 40))
	assert.False(t, ProbablySafePrime(big.NewInt(2), 40))
	assert.False(t, ProbablySafePrime(big.NewInt(13), 40)) // 13 prime, 6 not
	assert.False(t, ProbablySafePrime(big.NewInt(26905), 40))
}
