package utils_test

import (
	"testing"

	"github.com/jrsteele09/go-auth-client/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	require.False(t, utils.Value[bool](nil))
	require.Equal(t, "", utils.Value[string](nil))
	require.True(t, utils.Value(utils.Ptr(true)))
	require.Equal(t, 7, utils.Value(utils.Ptr(7)))
}
