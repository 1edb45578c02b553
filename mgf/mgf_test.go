package mgf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMGF(n int) []byte {
	b := make([]byte, n)
	copy(b, []byte{'M', 'a', 'l', 'i', 'e', 'G', 'F', 0x00})
	for i := SignatureSize; i < n; i++ {
		b[i] = byte(i)
	}
	return b
}

func TestToPNGThenToMGFRoundTrip(t *testing.T) {
	mgfFile := sampleMGF(200)
	require.True(t, IsMGF(mgfFile))

	pngFile, err := ToPNG(mgfFile)
	require.NoError(t, err)
	assert.True(t, IsPNG(pngFile))
	assert.True(t, bytes.Equal(mgfFile[SignatureSize:], pngFile[SignatureSize:]))

	eighth, err := EighthByte(mgfFile)
	require.NoError(t, err)

	back, err := ToMGF(pngFile, eighth)
	require.NoError(t, err)
	assert.Equal(t, mgfFile, back)
}

func TestResignRejectsShortInput(t *testing.T) {
	_, err := ToPNG([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestIsMGFAndIsPNGAreMutuallyExclusive(t *testing.T) {
	mgfFile := sampleMGF(16)
	assert.True(t, IsMGF(mgfFile))
	assert.False(t, IsPNG(mgfFile))

	pngFile, err := ToPNG(mgfFile)
	require.NoError(t, err)
	assert.True(t, IsPNG(pngFile))
	assert.False(t, IsMGF(pngFile))
}
