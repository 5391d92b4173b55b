package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromName(t *testing.T) {
	for _, v := range Variants {
		got, err := FromName(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestFromNameUnknown(t *testing.T) {
	_, err := FromName("unknown_transform")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized transform")
}

func TestMustFromNamePanics(t *testing.T) {
	require.Panics(t, func() {
		MustFromName("sharpen_only")
	})
}
