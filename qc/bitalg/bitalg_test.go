package bitalg

import (
	"testing"

	"github.com/qpandalite/qsim/qc/qerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPow2(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint64(1), Pow2(0))
	assert.Equal(uint64(4), Pow2(2))
	assert.Equal(uint64(1024), Pow2(10))
}

func TestExtractDigit(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint64(0), ExtractDigit(0b0100, 0))
	assert.Equal(uint64(1), ExtractDigit(0b0100, 2))
	assert.Equal(uint64(1), ExtractDigit(0b1011, 0))
}

func TestExtractDigits(t *testing.T) {
	assert := assert.New(t)
	// i = 0b110 (bit0=0, bit1=1, bit2=1); projecting onto qs=[0,2] gives bit0 at
	// sub-bit 0 and bit2 at sub-bit 1: sub = 0*1 + 1*2 = 2.
	assert.Equal(uint64(2), ExtractDigits(0b110, []int{0, 2}))
	// Reordering qs changes which sub-bit each source bit lands on.
	assert.Equal(uint64(1), ExtractDigits(0b110, []int{2, 0}))
}

func TestMakeControllerMask(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint64(0), MakeControllerMask(nil))
	assert.Equal(uint64(0b101), MakeControllerMask([]int{0, 2}))
}

func TestPreprocessMeasureList(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		out, err := PreprocessMeasureList([]int{2, 0}, 3)
		require.NoError(t, err)
		assert.Equal(t, map[int]int{2: 0, 0: 1}, out)
	})

	t.Run("duplicate qubit", func(t *testing.T) {
		_, err := PreprocessMeasureList([]int{0, 0}, 3)
		require.Error(t, err)
		assert.True(t, qerrors.IsInvalidArgument(err))
	})

	t.Run("qubit out of range", func(t *testing.T) {
		_, err := PreprocessMeasureList([]int{3}, 3)
		require.Error(t, err)
		assert.True(t, qerrors.IsInvalidArgument(err))
	})

	t.Run("list too long", func(t *testing.T) {
		_, err := PreprocessMeasureList([]int{0, 1, 2, 3}, 3)
		require.Error(t, err)
		assert.True(t, qerrors.IsInvalidArgument(err))
	})
}

func TestCheckQubitRange(t *testing.T) {
	assert.NoError(t, CheckQubitRange("op", 0, 3))
	assert.NoError(t, CheckQubitRange("op", 2, 3))
	assert.Error(t, CheckQubitRange("op", 3, 3))
	assert.Error(t, CheckQubitRange("op", -1, 3))
}

func TestCheckDistinct(t *testing.T) {
	assert.NoError(t, CheckDistinct("op", 0, 1, 2))
	assert.Error(t, CheckDistinct("op", 0, 1, 0))
}
