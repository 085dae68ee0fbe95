package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Acme", Truncate("Acme", 30))
	require.Equal(t, "abcdefghijklmnopqrstuvwxyz0123", Truncate("abcdefghijklmnopqrstuvwxyz0123456789", 30))
	require.Equal(t, "ééé", Truncate("éééé", 3))
	require.Equal(t, "", Truncate("anything", 0))
}
